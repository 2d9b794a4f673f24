// Package videos checks and corrects the pixel format of the preview
// videos referenced by catalog entries. The actual transcoding is an
// opaque external converter (ffmpeg) invoked once per file; this package
// only probes, schedules and renames. Files are independent, so a small
// fixed pool of workers runs conversions with no ordering guarantee.
package videos

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/logging"
)

// DefaultWorkers is the conversion pool size when none is configured.
const DefaultWorkers = 2

// Converter probes videos and re-encodes the ones whose pixel format the
// target player cannot handle.
type Converter struct {
	// FFmpeg and FFprobe are the binaries to invoke.
	FFmpeg  string
	FFprobe string

	// PixelFormat is the accepted format; anything else is converted.
	PixelFormat string

	// Workers bounds the number of concurrent conversions.
	Workers int

	// DryRun probes and reports but never converts.
	DryRun bool

	// Progress renders a progress bar while the batch runs.
	Progress bool
}

// New returns a Converter with the conventional defaults.
func New() *Converter {
	return &Converter{
		FFmpeg:      "ffmpeg",
		FFprobe:     "ffprobe",
		PixelFormat: "yuv420p",
		Workers:     DefaultWorkers,
	}
}

// Report summarizes one formatting batch.
type Report struct {
	Probed    int
	Converted []string
	Failures  []error

	mu sync.Mutex
}

type job struct {
	name string
	path string
}

// Format probes every entry video in the given catalogs and converts the
// nonconforming ones in place. Per-file failures are collected, never
// fatal: one broken video must not abort the batch.
func (c *Converter) Format(ctx context.Context, cats []*gamelist.Catalog) *Report {
	log := logging.FromContext(ctx)
	report := &Report{}

	var jobs []job
	for _, cat := range cats {
		for _, e := range cat.Entries {
			if e.Video == "" {
				continue
			}
			path := cat.Resolve(e.Video)
			if _, err := os.Stat(path); err != nil {
				continue // surfaced by remove-incomplete, not here
			}
			jobs = append(jobs, job{name: e.Name, path: path})
		}
	}
	if len(jobs) == 0 {
		return report
	}

	var bar *progressbar.ProgressBar
	if c.Progress {
		bar = progressbar.Default(int64(len(jobs)), "formatting videos")
	}

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	queue := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				c.processOne(ctx, j, report)
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

feed:
	for _, j := range jobs {
		select {
		case <-ctx.Done():
			// Stop feeding; in-flight conversions finish on their own.
			break feed
		case queue <- j:
		}
	}
	close(queue)
	wg.Wait()

	log.Info().
		Int("probed", report.Probed).
		Int("converted", len(report.Converted)).
		Int("failed", len(report.Failures)).
		Msg("Video formatting finished")
	return report
}

// processOne probes a single video and converts it when needed.
func (c *Converter) processOne(ctx context.Context, j job, report *Report) {
	log := logging.FromContext(ctx)

	format, err := c.Probe(ctx, j.path)
	report.mu.Lock()
	report.Probed++
	report.mu.Unlock()
	if err != nil {
		report.fail(err)
		return
	}
	if format == c.PixelFormat {
		return
	}

	log.Debug().Str("video", j.path).Str("pix_fmt", format).Msg("Video needs conversion")
	if c.DryRun {
		report.converted(j.path)
		return
	}
	if err := c.convert(ctx, j.path); err != nil {
		report.fail(err)
		return
	}
	report.converted(j.path)
}

// Probe returns the pixel format of the first video stream.
func (c *Converter) Probe(ctx context.Context, path string) (string, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=pix_fmt",
		"-of", "json",
		path,
	}
	cmd := exec.CommandContext(ctx, c.FFprobe, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return "", &errors.ProcessError{
			Operation: "probe video",
			Command:   c.FFprobe + " " + strings.Join(args, " "),
			Output:    exitOutput(err),
			Err:       err,
		}
	}

	var probe struct {
		Streams []struct {
			PixFmt string `json:"pix_fmt"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(output, &probe); err != nil {
		return "", errors.WrapParse("json", path, err)
	}
	if len(probe.Streams) == 0 {
		return "", &errors.ProcessError{
			Operation: "probe video",
			Command:   c.FFprobe,
			Err:       errors.New("no video stream in " + path),
		}
	}
	return probe.Streams[0].PixFmt, nil
}

// convert re-encodes the video to the accepted pixel format next to the
// original, then renames over it so a failed encode never clobbers the
// source.
func (c *Converter) convert(ctx context.Context, path string) error {
	ext := filepath.Ext(path)
	tmpPath := strings.TrimSuffix(path, ext) + "-new" + ext

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-pix_fmt", c.PixelFormat,
		tmpPath,
	}
	cmd := exec.CommandContext(ctx, c.FFmpeg, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(tmpPath)
		return &errors.ProcessError{
			Operation: "convert video",
			Command:   c.FFmpeg + " " + strings.Join(args, " "),
			Output:    strings.TrimSpace(string(output)),
			Err:       err,
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

func (r *Report) fail(err error) {
	r.mu.Lock()
	r.Failures = append(r.Failures, err)
	r.mu.Unlock()
}

func (r *Report) converted(path string) {
	r.mu.Lock()
	r.Converted = append(r.Converted, path)
	r.mu.Unlock()
}

// exitOutput extracts stderr from an exec failure when available.
func exitOutput(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Stderr))
	}
	return ""
}
