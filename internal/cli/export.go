// export.go implements "examcoach export", writing the dashboard charts as PNG.
package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/examcoach/examcoach/internal/chart"
	"github.com/examcoach/examcoach/internal/render"
)

// Exported image size in pixels.
const (
	exportWidth  = 800
	exportHeight = 480
)

func newExportCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the progress charts as PNG files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.client.Progress(cmd.Context(), s.studentID)
			if err != nil {
				return err
			}

			charts := chart.NewManager(s.logger)
			defer charts.DisposeAll()
			if err := render.BindDashboard(charts, render.BuildDashboard(p), chart.ImageBuilder); err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			for _, key := range render.ChartKeys {
				path, err := exportChart(charts, key, outDir)
				switch {
				case errors.Is(err, chart.ErrNoData):
					fmt.Fprintf(out(cmd), "skipped %s: no data\n", key)
				case err != nil:
					return err
				default:
					fmt.Fprintf(out(cmd), "wrote %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	return cmd
}

func exportChart(charts *chart.Manager, key, dir string) (string, error) {
	ch, ok := charts.Get(key)
	if !ok {
		return "", fmt.Errorf("chart %s is not bound", key)
	}
	img, ok := ch.(*chart.Image)
	if !ok {
		return "", fmt.Errorf("chart %s is not an image", key)
	}

	var buf bytes.Buffer
	if err := img.WritePNG(&buf, exportWidth, exportHeight); err != nil {
		return "", err
	}

	path := filepath.Join(dir, key+".png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
