package cli

import (
	"context"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/teamcutter/extractr/internal/domain"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func withSpinner(ctx context.Context, desc string) (stop func()) {
	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWriter(os.Stderr),
	)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				spinner.Finish()
				return
			default:
				spinner.Add(1)
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()
	return func() {
		close(done)
		spinner.Finish()
	}
}

// resultSize sums the size of every extracted file.
func resultSize(res *domain.Result) string {
	var size uint64
	for _, p := range res.Paths() {
		if info, err := os.Lstat(p); err == nil {
			size += uint64(info.Size())
		}
	}
	return humanize.Bytes(size)
}
