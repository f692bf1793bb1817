package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"gioui.org/app"
	"github.com/disintegration/imaging"
	"github.com/esimov/easel"
	"github.com/esimov/easel/gui"
	"github.com/esimov/easel/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┌─┐┌─┐┌─┐┬
├┤ ├─┤└─┐├┤ │
└─┘┴ ┴└─┘└─┘┴─┘

Raster paint engine with scripted and interactive drawing.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// defaultSavePath is used by the preview window when the output is a pipe.
const defaultSavePath = "easel.png"

// result holds the relevant information about a rendered script.
type result struct {
	path string
	err  error
}

// spinner used to instantiate and call the progress indicator.
var spinner *utils.Spinner

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", "", "Source image painted over (optional)")
	destination = flag.String("out", pipeName, "Destination image or directory ("+strings.Join(easel.SupportedExtensions, ", ")+")")
	scriptPath  = flag.String("script", "", "Paint script file or directory of scripts")
	configPath  = flag.String("config", "", "YAML configuration file")
	width       = flag.Int("width", 0, "Canvas width")
	height      = flag.Int("height", 0, "Canvas height")
	history     = flag.Int("history", 0, "Undo history capacity")
	paintColor  = flag.String("color", "", "Paint color (#rrggbb)")
	size        = flag.Float64("size", 0, "Brush size")
	opacity     = flag.Float64("opacity", 1, "Paint opacity (0.0-1.0)")
	fillShapes  = flag.Bool("fill", false, "Fill shapes instead of outlining them")
	seed        = flag.Int64("seed", 0, "Random seed of the spray and oil brush tools")
	preview     = flag.Bool("preview", false, "Open the canvas in an interactive window")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of scripts to render concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid configuration: %v\n", utils.ErrorMessage), err)
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("🖌 EASEL", utils.StatusMessage),
		utils.DecorateText("is painting...", utils.DefaultMessage))
	spinner = utils.NewSpinner(os.Stderr, spinnerText, time.Millisecond*100, true)

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	// The source is decoded once and shared by every render.
	var src image.Image
	if *source != "" {
		if src, err = openSource(*source); err != nil {
			log.Fatalf(utils.DecorateText("Unable to load the source image: %v\n", utils.ErrorMessage), err)
		}
	}

	if *preview {
		runPreview(src, cfg)
		return
	}

	if *scriptPath == "" {
		flag.Usage()
		log.Fatal(fmt.Sprintf("%s%s",
			utils.DecorateText("\nPlease provide a paint script or use the -preview flag!", utils.ErrorMessage),
			utils.DefaultColor,
		))
	}

	fs, err := os.Stat(*scriptPath)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to load the paint script: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	now := time.Now()
	spinner.Start()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		var wg sync.WaitGroup
		if err := prepareDestDir(*destination); err != nil {
			spinner.Stop()
			log.Fatalf(
				utils.DecorateText("Invalid destination: %v\n", utils.ErrorMessage),
				utils.DecorateText(err.Error(), utils.DefaultMessage),
			)
		}

		// Limit the concurrently running workers to maxWorkers.
		if *workers <= 0 || *workers > maxWorkers {
			*workers = runtime.NumCPU()
		}

		// Render recursively the scripts from the specified directory concurrently.
		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, *scriptPath, []string{".yaml", ".yml"})

		wg.Add(*workers)
		for i := 0; i < *workers; i++ {
			go func() {
				defer wg.Done()
				consumer(done, paths, *destination, src, cfg, ch)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		var failed int
		for res := range ch {
			if res.err != nil {
				failed++
			}
			printStatus(res.path, res.err)
		}
		spinner.Stop()

		if err := <-errc; err != nil {
			fmt.Fprint(os.Stderr, utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		if failed > 0 {
			os.Exit(1)
		}

	case mode.IsRegular():
		err := render(*scriptPath, src, *destination, cfg)
		spinner.Stop()
		printStatus(*destination, err)
		if err != nil {
			os.Exit(1)
		}
	}
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
}

// loadConfig merges the configuration file and the explicitly set flags.
func loadConfig() (easel.Config, error) {
	cfg := easel.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = easel.LoadConfig(*configPath); err != nil {
			return cfg, err
		}
	}
	cfg = cfg.Merge(flagOverrides())
	return cfg, cfg.Validate()
}

// flagOverrides returns the options set on the command line.
func flagOverrides() easel.Config {
	var o easel.Config
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			o.Width = *width
		case "height":
			o.Height = *height
		case "history":
			o.History = *history
		case "color":
			o.Color = *paintColor
		case "size":
			o.Size = *size
		case "opacity":
			o.Opacity = easel.Float(*opacity)
		case "fill":
			o.Fill = easel.Bool(*fillShapes)
		case "seed":
			o.Seed = *seed
		}
	})
	return o
}

// runPreview opens the interactive window. The Gio event loop must own the
// main goroutine, so the window runs in a separate one.
func runPreview(src image.Image, cfg easel.Config) {
	var (
		s   *easel.Session
		err error
	)
	if *scriptPath != "" {
		s, err = newScriptSession(*scriptPath, src, cfg)
	} else {
		s, err = newSession(src, cfg)
	}
	if err != nil {
		log.Fatalf(utils.DecorateText("Unable to open the canvas: %v\n", utils.ErrorMessage), err)
	}

	savePath := *destination
	if savePath == pipeName {
		savePath = defaultSavePath
	}

	go func() {
		if err := gui.NewGUI(s, savePath).Run(); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// walkDir starts a goroutine to walk the specified directory tree in recursive manner
// and send the path of each regular file on the string channel.
// It sends the result of the walk on the error channel.
// It terminates in case done channel is closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(srcExts, strings.ToLower(filepath.Ext(info.Name()))) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// prepareDestDir makes sure dest is a directory the rendered scripts can be
// written into, creating it when missing.
func prepareDestDir(dest string) error {
	if dest == pipeName {
		return errors.New("a directory of scripts needs a destination directory, not a pipe")
	}
	fi, err := os.Stat(dest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(dest, 0755)
		}
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dest)
	}
	return nil
}

// consumer reads the script paths from the paths channel, renders each of them
// into the destination directory and sends the results on a new channel.
// The decoded source image, if any, is shared read-only by every worker.
func consumer(
	done <-chan interface{},
	paths <-chan string,
	dest string,
	src image.Image,
	cfg easel.Config,
	res chan<- result,
) {
	for path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
		err := render(path, src, filepath.Join(dest, name), cfg)

		select {
		case <-done:
			return
		case res <- result{
			path: path,
			err:  err,
		}:
		}
	}
}

// render replays the script at path and writes the resulting canvas to out.
func render(path string, src image.Image, out string, cfg easel.Config) error {
	if out != pipeName {
		if _, err := easel.FormatFromPath(out); err != nil {
			return err
		}
	}
	s, err := newScriptSession(path, src, cfg)
	if err != nil {
		return err
	}

	dst, format, err := destinationFile(out)
	if err != nil {
		return err
	}
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		defer func() {
			if err := f.Close(); err != nil {
				log.Printf("could not close the opened file: %v", err)
			}
		}()
	}

	if err := s.Export(dst, format); err != nil {
		if out != pipeName {
			os.Remove(out)
		}
		return err
	}
	return nil
}

// newScriptSession creates a session for the script at path and runs it.
func newScriptSession(path string, src image.Image, cfg easel.Config) (*easel.Session, error) {
	sc, err := easel.LoadScript(path)
	if err != nil {
		return nil, err
	}
	// Command line flags win over the script options.
	sc.Config = sc.Config.Merge(flagOverrides())

	s, err := sc.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if src != nil {
		if err := s.LoadImage(src); err != nil {
			return nil, err
		}
	}
	if err := s.Run(sc); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// newSession creates a blank session, painted over the source image if there is one.
func newSession(src image.Image, cfg easel.Config) (*easel.Session, error) {
	s, err := easel.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if src != nil {
		if err := s.LoadImage(src); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// openSource decodes the source image, be it a regular file or a pipe.
func openSource(in string) (image.Image, error) {
	var r io.Reader
	if in == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		r = os.Stdin
	} else {
		f, err := os.Open(in)
		if err != nil {
			return nil, fmt.Errorf("unable to open the source file: %w", err)
		}
		defer f.Close()
		r = f
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("unable to decode the source image: %w", err)
	}
	return img, nil
}

// destinationFile converts the destination path to a writable file and its export format.
func destinationFile(out string) (io.Writer, string, error) {
	// Check if the destination is a pipe name or a regular file.
	if out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, "", errors.New("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, "png", nil
	}
	format, err := easel.FormatFromPath(out)
	if err != nil {
		return nil, "", err
	}
	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create the destination file: %w", err)
	}
	return dst, format, nil
}

// printStatus displays the relevant information about the rendering process.
func printStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr,
			utils.DecorateText("\nError rendering the script: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
		return
	}
	if fname != pipeName {
		fmt.Fprintf(os.Stderr, "\nThe canvas has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}
