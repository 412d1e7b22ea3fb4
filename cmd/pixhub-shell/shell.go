package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/pixhub/internal/gallery"
	"github.com/ytget/pixhub/internal/model"
	"github.com/ytget/pixhub/internal/store"
	"github.com/ytget/pixhub/internal/upload"
)

const (
	idleTimeout = 15 * time.Second
	idlePoll    = 20 * time.Millisecond
)

const helpText = `Commands:
  search <text>         filter the listing as if typed (debounced)
  say <text>            search at once, as a voice query
  topics                show the preset topics
  type image|video      switch the listing
  list                  show the current listing
  refresh               refetch the listing
  save <n|id>           add a listed item to the collection
  remove <id>           remove an item from the collection
  saved                 show the collection
  download <n|id>       save a listed item's file
  downloads             show downloads
  upload <file> <category id> <title...>
  categories            show the categories
  token [value]         set or clear the API token
  help, quit`

// shell turns command lines into session intents
type shell struct {
	session  *gallery.Session
	tokens   store.Store
	out      io.Writer
	debounce time.Duration

	// reported download outcomes, touched only from the loop goroutine
	finished map[string]model.TaskStatus
}

func newShell(session *gallery.Session, tokens store.Store, out io.Writer, debounce time.Duration) *shell {
	return &shell{
		session:  session,
		tokens:   tokens,
		out:      out,
		debounce: debounce,
		finished: make(map[string]model.TaskStatus),
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, helpText)
	case "search":
		sh.session.Search(rest)
		time.Sleep(sh.debounce)
		sh.waitIdle()
		sh.list()
	case "say":
		sh.session.OnTranscript(rest)
		sh.waitIdle()
		sh.list()
	case "topics":
		fmt.Fprintln(sh.out, strings.Join(gallery.Topics(), ", "))
	case "type":
		mt, err := model.ParseMediaType(rest)
		if err != nil {
			fmt.Fprintln(sh.out, "usage: type image|video")
			return false
		}
		sh.session.SetContentType(mt)
		sh.waitIdle()
		sh.list()
	case "list", "ls":
		sh.list()
	case "refresh":
		sh.session.Refresh()
		sh.waitIdle()
		sh.list()
	case "save":
		if item, ok := sh.pick(args); ok {
			sh.session.Save(item)
		}
	case "remove", "rm":
		if len(args) != 1 {
			fmt.Fprintln(sh.out, "usage: remove <id>")
			return false
		}
		sh.session.Remove(model.ParseItemID(args[0]))
	case "saved":
		st := sh.session.State()
		if st.Saved.Len() == 0 {
			fmt.Fprintln(sh.out, "The collection is empty.")
			return false
		}
		sh.printItems(st.Saved.Items(), nil)
	case "download", "dl":
		if item, ok := sh.pick(args); ok {
			sh.session.Download(item)
		}
	case "downloads":
		sh.downloads()
	case "upload":
		sh.upload(args)
	case "categories":
		for _, c := range sh.session.State().Categories {
			fmt.Fprintf(sh.out, "%4d  %s\n", c.ID, c.Name)
		}
	case "token":
		if err := sh.tokens.Set(store.KeyAuthToken, rest); err != nil {
			fmt.Fprintf(sh.out, "token not saved: %v\n", err)
		}
	default:
		fmt.Fprintf(sh.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

// waitIdle blocks until no listing fetch is in flight.
func (sh *shell) waitIdle() {
	ctx, cancel := context.WithTimeout(context.Background(), idleTimeout)
	defer cancel()
	// let posted intents reach the loop first
	time.Sleep(idlePoll)
	for sh.session.State().Loading {
		select {
		case <-ctx.Done():
			fmt.Fprintln(sh.out, "still loading...")
			return
		case <-time.After(idlePoll):
		}
	}
}

func (sh *shell) list() {
	st := sh.session.State()
	if st.Error != "" {
		fmt.Fprintln(sh.out, st.Error)
	}
	fmt.Fprintf(sh.out, "%s matching %q: %d\n", st.ItemsType, st.ItemsQuery, len(st.Items))
	sh.printItems(st.Items, &st)
}

func (sh *shell) printItems(items []model.MediaItem, st *gallery.State) {
	for i, item := range items {
		mark := " "
		if st != nil && st.IsSaved(item.ID) {
			mark = "*"
		}
		fmt.Fprintf(sh.out, "%3d %s %-8s %s\n", i+1, mark, item.ID, item.DisplayTitle())
	}
}

// pick resolves "3" as the third listed item and anything else as an id
// in the listing.
func (sh *shell) pick(args []string) (model.MediaItem, bool) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "expected one item number or id")
		return model.MediaItem{}, false
	}
	item, ok := resolveItem(sh.session.State().Items, args[0])
	if !ok {
		fmt.Fprintf(sh.out, "no listed item %q\n", args[0])
	}
	return item, ok
}

func resolveItem(items []model.MediaItem, arg string) (model.MediaItem, bool) {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], true
	}
	id := model.ParseItemID(arg)
	for _, item := range items {
		if item.ID == id || item.ID.String() == arg {
			return item, true
		}
	}
	return model.MediaItem{}, false
}

func (sh *shell) downloads() {
	tasks := sh.session.State().Downloads
	if len(tasks) == 0 {
		fmt.Fprintln(sh.out, "No downloads.")
		return
	}
	for _, task := range tasks {
		fmt.Fprintf(sh.out, "%-11s %4s %8s  %s\n", task.Status, task.GetPercentString(),
			humanize.Bytes(uint64(task.BytesDone)), task.OutputPath)
	}
}

func (sh *shell) upload(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(sh.out, "usage: upload <file> <category id> <title...>")
		return
	}
	form := upload.Form{
		FilePath: args[0],
		Category: args[1],
		Title:    strings.Join(args[2:], " "),
	}
	if err := <-sh.session.Upload(form); err != nil {
		fmt.Fprintln(sh.out, err)
	}
}

// onChange reports each download once it finishes. Runs on the loop goroutine.
func (sh *shell) onChange(st gallery.State) {
	for _, task := range st.Downloads {
		if !task.Status.IsFinished() || sh.finished[task.ID] == task.Status {
			continue
		}
		sh.finished[task.ID] = task.Status
		switch task.Status {
		case model.TaskStatusCompleted:
			fmt.Fprintf(sh.out, "downloaded %s (%s)\n", task.OutputPath, humanize.Bytes(uint64(task.BytesDone)))
		case model.TaskStatusError:
			fmt.Fprintf(sh.out, "download failed: %s\n", task.LastError)
		}
	}
}
