// compose_preview renders a local image the way the frame would show it, once per background
// mode, so fills and captions can be checked without a display or an album.
//
//	go run ./cmd/util/compose_preview -in photo.jpg -width 1080 -height 1920 -rotate 90
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/dixieflatline76/Vista/pkg/compositor"
	"github.com/dixieflatline76/Vista/pkg/frame"
)

var modes = []compositor.Background{compositor.BackgroundBlur, compositor.BackgroundCrop, compositor.BackgroundNone}

type previewOptions struct {
	width, height int
	rotation      int
	caption       string
	outDir        string
}

func main() {
	in := flag.String("in", "", "image to render")
	opts := previewOptions{}
	flag.IntVar(&opts.width, "width", 1920, "screen width")
	flag.IntVar(&opts.height, "height", 1080, "screen height")
	flag.IntVar(&opts.rotation, "rotate", 0, "display rotation in degrees clockwise")
	flag.StringVar(&opts.caption, "caption", "", "caption drawn at the bottom left")
	flag.StringVar(&opts.outDir, "out", ".", "output directory")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
		os.Exit(1)
	}

	base := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
	paths, err := renderPreviews(data, base, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering previews: %v\n", err)
		os.Exit(1)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}

// renderPreviews writes <base>_<mode>.png for every background mode and returns the paths.
func renderPreviews(data []byte, base string, opts previewOptions) ([]string, error) {
	if err := compositor.ValidRotation(opts.rotation); err != nil {
		return nil, err
	}
	img, err := frame.Decode(data)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Input: %dx%d\n", img.Bounds().Dx(), img.Bounds().Dy())

	w, h := compositor.LogicalSize(opts.width, opts.height, opts.rotation)
	paths := make([]string, 0, len(modes))
	for _, mode := range modes {
		out := compositor.Compose(img, w, h, mode)
		if opts.caption != "" {
			out = compositor.DrawCaption(out, opts.caption)
		}
		out = compositor.Rotate(out, opts.rotation)

		path := filepath.Join(opts.outDir, fmt.Sprintf("%s_%s.png", base, mode))
		if err := imaging.Save(out, path); err != nil {
			return nil, fmt.Errorf("saving %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
