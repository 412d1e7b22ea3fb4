package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/ytget/pixhub/internal/model"
)

// TaskRow is one line of the downloads tab
type TaskRow struct {
	widget.BaseWidget

	task         model.DownloadTask
	localization *Localization

	titleLabel  *widget.Label
	statusLabel *widget.Label
	detailLabel *widget.Label
	progress    *widget.ProgressBar

	stopBtn   *widget.Button
	openBtn   *widget.Button
	revealBtn *widget.Button
	removeBtn *widget.Button

	onStop   func(taskID string)
	onOpen   func(filePath string)
	onReveal func(filePath string)
	onRemove func(taskID string)
}

// NewTaskRow creates a row for task
func NewTaskRow(task model.DownloadTask, localization *Localization) *TaskRow {
	tr := &TaskRow{
		task:         task,
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(
	onStop func(taskID string),
	onOpen func(filePath string),
	onReveal func(filePath string),
	onRemove func(taskID string),
) {
	tr.onStop = onStop
	tr.onOpen = onOpen
	tr.onReveal = onReveal
	tr.onRemove = onRemove
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task model.DownloadTask) {
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing

	tr.detailLabel = widget.NewLabel("")
	tr.detailLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.detailLabel.Truncation = fyne.TextTruncateEllipsis

	tr.progress = widget.NewProgressBar()

	tr.stopBtn = widget.NewButtonWithIcon("", theme.MediaStopIcon(), func() {
		if tr.onStop != nil {
			tr.onStop(tr.task.ID)
		}
	})
	tr.openBtn = widget.NewButton(tr.localization.GetText(KeyOpen), func() {
		if tr.onOpen != nil {
			tr.onOpen(tr.task.OutputPath)
		}
	})
	tr.revealBtn = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		if tr.onReveal != nil {
			tr.onReveal(tr.task.OutputPath)
		}
	})
	tr.removeBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if tr.onRemove != nil {
			tr.onRemove(tr.task.ID)
		}
	})
	tr.removeBtn.Importance = widget.LowImportance
}

// updateFromTask updates UI components based on task state
func (tr *TaskRow) updateFromTask() {
	tr.titleLabel.SetText(tr.task.GetDisplayTitle())

	switch tr.task.Status {
	case model.TaskStatusError:
		tr.statusLabel.Importance = widget.DangerImportance
		tr.statusLabel.SetText(IconError + " " + tr.task.Status.String())
	case model.TaskStatusCompleted:
		tr.statusLabel.Importance = widget.SuccessImportance
		tr.statusLabel.SetText(tr.task.Status.String())
	case model.TaskStatusDownloading:
		tr.statusLabel.Importance = widget.HighImportance
		tr.statusLabel.SetText(tr.task.GetPercentString())
	default:
		tr.statusLabel.Importance = widget.MediumImportance
		tr.statusLabel.SetText(tr.task.Status.String())
	}

	tr.progress.SetValue(tr.task.Progress())
	tr.detailLabel.SetText(taskDetail(tr.task))
	tr.updateButtons()
}

// taskDetail is the monospace line under the title: size and speed while
// running, the error when failed, the destination otherwise.
func taskDetail(task model.DownloadTask) string {
	switch task.Status {
	case model.TaskStatusDownloading:
		text := humanize.Bytes(uint64(task.BytesDone))
		if task.BytesTotal > 0 {
			text += " / " + humanize.Bytes(uint64(task.BytesTotal))
		}
		if task.Speed != "" {
			text += MiddleDotSeparator + task.Speed
		}
		return text
	case model.TaskStatusError:
		return task.LastError
	case model.TaskStatusCompleted:
		return fmt.Sprintf("%s%s%s", humanize.Bytes(uint64(task.BytesDone)), MiddleDotSeparator, task.OutputPath)
	case model.TaskStatusPending, model.TaskStatusStarting:
		return DashPlaceholder
	}
	return task.OutputPath
}

func (tr *TaskRow) updateButtons() {
	if tr.task.Status.IsFinished() {
		tr.stopBtn.Disable()
	} else {
		tr.stopBtn.Enable()
	}

	if tr.task.Status == model.TaskStatusCompleted && tr.task.OutputPath != "" {
		tr.openBtn.Enable()
		tr.revealBtn.Enable()
	} else {
		tr.openBtn.Disable()
		tr.revealBtn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	return &taskRowRenderer{taskRow: tr}
}

// taskRowRenderer lays the row out as title/status, progress, details and
// actions.
type taskRowRenderer struct {
	taskRow *TaskRow
	layout  *fyne.Container
}

func (r *taskRowRenderer) createLayout() {
	tr := r.taskRow
	status := container.NewGridWrap(fyne.NewSize(StatusWidth, tr.statusLabel.MinSize().Height), tr.statusLabel)
	header := container.NewBorder(nil, nil, nil, status, tr.titleLabel)
	actions := container.NewHBox(tr.stopBtn, tr.openBtn, tr.revealBtn, tr.removeBtn)
	footer := container.NewBorder(nil, nil, nil, actions, tr.detailLabel)
	r.layout = container.NewVBox(header, tr.progress, footer, widget.NewSeparator())
}

// Layout arranges the components
func (r *taskRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *taskRowRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	minSize := r.layout.MinSize()
	if minSize.Width < RowMinWidth {
		minSize.Width = RowMinWidth
	}
	if minSize.Height < RowMinHeight {
		minSize.Height = RowMinHeight
	}
	return minSize
}

// Refresh refreshes the renderer
func (r *taskRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the renderer's objects
func (r *taskRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *taskRowRenderer) Destroy() {}
