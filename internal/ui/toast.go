package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/pixhub/internal/notify"
)

const toastGap float32 = 8

// showToast stacks a notification in the top-right corner. Must run on the
// UI goroutine.
func (ui *RootUI) showToast(n notify.Notification) {
	message := widget.NewLabel(n.Message)
	message.Truncation = fyne.TextTruncateEllipsis
	switch n.Level {
	case notify.Success:
		message.Importance = widget.SuccessImportance
	case notify.Error:
		message.Importance = widget.DangerImportance
	default:
		message.Importance = widget.MediumImportance
	}

	var toast *widget.PopUp
	closeBtn := widget.NewButton(IconClose, func() { ui.dismissToast(toast) })
	closeBtn.Importance = widget.LowImportance

	toast = widget.NewPopUp(container.NewBorder(nil, nil, nil, closeBtn, message), ui.window.Canvas())
	toast.Resize(fyne.NewSize(ToastWidth, ToastHeight))
	ui.toasts = append(ui.toasts, toast)
	ui.layoutToasts()
	toast.Show()

	if n.AutoClose > 0 {
		time.AfterFunc(n.AutoClose, func() {
			fyne.Do(func() { ui.dismissToast(toast) })
		})
	}
}

func (ui *RootUI) dismissToast(toast *widget.PopUp) {
	for i, t := range ui.toasts {
		if t == toast {
			ui.toasts = append(ui.toasts[:i], ui.toasts[i+1:]...)
			toast.Hide()
			ui.layoutToasts()
			return
		}
	}
}

// layoutToasts positions the stack, newest at the bottom
func (ui *RootUI) layoutToasts() {
	canvasSize := ui.window.Canvas().Size()
	x := canvasSize.Width - ToastWidth - ToastMargin
	for i, t := range ui.toasts {
		t.Move(fyne.NewPos(x, ToastMargin+float32(i)*(ToastHeight+toastGap)))
	}
}
