package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/pkg/note"
	"github.com/akeil/sntool/pkg/render"
)

const (
	checkmark = "✓"
	crossmark = "✗"
	ellipsis  = "…"
)

type settings struct {
	profile *note.Profile
	jobs    int
	strict  bool
}

func main() {
	app := kingpin.New("sntool", "Supernote notebook tool")
	app.HelpFlag.Short('h')

	var (
		logLevel = app.Flag("loglevel", "Log level (debug, info, warning, error)").Envar("SNTOOL_LOGLEVEL").Default("warning").String()
		profile  = app.Flag("profile", "Device profile for new notebooks, by name or signature").Envar("SNTOOL_PROFILE").Default(note.DefaultProfile.Name).String()
		jobs     = app.Flag("jobs", "Number of files to work on in parallel").Short('j').Envar("SNTOOL_JOBS").Default("4").Int()
		strict   = app.Flag("strict", "Reject metadata keys that are not known").Bool()
	)

	info := app.Command("info", "Show the structure of notebook files").Default()
	infoFiles := info.Arg("files", "Notebook files").Required().ExistingFiles()

	export := app.Command("export", "Export notebook pages as PNG or PDF")
	var (
		exportFiles = export.Arg("files", "Notebook files").Required().ExistingFiles()
		outDir      = export.Flag("output", "Output directory").Short('o').Default(".").ExistingDir()
		format      = export.Flag("format", "Output format").Short('f').Default("pdf").Enum("pdf", "png")
		portrait    = export.Flag("portrait", "Turn landscape pages upright").Bool()
		width       = export.Flag("width", "Scale pages to this width in pixels").Short('w').Int()
	)

	create := app.Command("create", "Create a notebook with one page per background image")
	var (
		createOut = create.Flag("output", "Notebook file to write").Short('o').Required().String()
		style     = create.Flag("style", "Style name for background images").Default("user_sntool").String()
		grays     = create.Flag("grays", "Keep gray tones of ink images").Bool()
		inkDir    = create.Flag("ink", "Directory with ink images, matched to backgrounds by name").ExistingDir()
		images    = create.Arg("images", "Background images (PNG, JPEG, GIF, BMP, TIFF, WebP)").ExistingFiles()
	)

	verify := app.Command("verify", "Rewrite notebook files in memory and compare the result")
	verifyFiles := verify.Arg("files", "Notebook files").Required().ExistingFiles()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	sntool.SetLogLevel(*logLevel)

	p, ok := note.ProfileByName(*profile)
	if !ok {
		fmt.Printf("Error: unknown profile %q\n", *profile)
		os.Exit(1)
	}
	if *jobs < 1 {
		*jobs = 1
	}
	s := settings{profile: p, jobs: *jobs, strict: *strict}

	var err error
	switch command {
	case "info":
		err = doInfo(s, *infoFiles)
	case "export":
		err = doExport(s, *exportFiles, *outDir, *format, render.Options{Portrait: *portrait, Width: *width})
	case "create":
		err = doCreate(s, *createOut, *images, createOptions{style: *style, grays: *grays, inkDir: *inkDir})
	case "verify":
		err = doVerify(s, *verifyFiles)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// forEach calls f for every path with at most s.jobs calls at a time.
// Returns the first error.
func forEach(s settings, paths []string, f func(path string) error) error {
	group, ctx := errgroup.WithContext(context.Background())
	sem := semaphore.NewWeighted(int64(s.jobs))
	for _, path := range paths {
		path := path
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		group.Go(func() error {
			defer sem.Release(1)
			return f(path)
		})
	}
	return group.Wait()
}

func readNotebook(s settings, path string) (*sntool.Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n, err := sntool.Parse(data, sntool.WithStrict(s.strict))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return n, nil
}
