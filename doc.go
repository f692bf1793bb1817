/*
Package easel is a raster paint engine. It draws onto a pixel canvas with freehand tools
(brush, eraser, spray, marker, oil brush) and parametric shapes (line, rectangle, circle,
triangle, star, heart), fills regions with a scan-line flood fill and keeps a bounded
snapshot based undo/redo history.

The package provides a command line interface which replays YAML paint scripts and can open
an interactive preview window. To check the supported commands type:

	$ easel --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"log"
		"os"

		"github.com/esimov/easel"
	)

	func main() {
		s, err := easel.NewSession(easel.Config{Width: 320, Height: 240})
		if err != nil {
			log.Fatal(err)
		}
		s.SetColor("#ff0000")
		s.PointerDown(easel.Pt(10, 10))
		s.PointerMove(easel.Pt(120, 80))
		s.PointerUp(easel.Pt(200, 40))

		if err := s.Export(os.Stdout, "png"); err != nil {
			log.Fatalf("Error exporting the canvas: %s", err.Error())
		}
	}
*/
package easel
