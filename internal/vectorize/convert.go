package vectorize

import (
	"fmt"

	"github.com/ironsheep/image-vectorize/internal/cluster"
	"github.com/ironsheep/image-vectorize/internal/imaging"
	"github.com/ironsheep/image-vectorize/internal/logging"
	"github.com/ironsheep/image-vectorize/internal/svg"
	"go.uber.org/zap"
)

// Loader decodes the image at path.
type Loader interface {
	Load(path string) (*imaging.Raster, error)
}

// Convert reads cfg.InputPath, converts it and writes the SVG to
// cfg.OutputPath.
func Convert(cfg Config) error {
	return ConvertWithLoader(cfg, imaging.FileLoader{})
}

// ConvertWithLoader is Convert with a custom image loader.
func ConvertWithLoader(cfg Config, loader Loader) error {
	cc := cfg.Resolve()

	img, err := loader.Load(cc.InputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}

	doc, err := convert(cc, img)
	if err != nil {
		return err
	}

	if err := doc.Save(cc.OutputPath); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputNotWritable, err)
	}

	logging.Logger.Info("conversion written",
		zap.String("input", cc.InputPath),
		zap.String("output", cc.OutputPath),
		zap.Int("paths", doc.Len()))
	return nil
}

// ConvertInMemory converts an already decoded image and returns the
// serialized SVG. The raster is handed to the segmentation engine and must
// not be modified by the caller while the call runs.
func ConvertInMemory(cfg Config, img *imaging.Raster) (string, error) {
	doc, err := ConvertDocument(cfg, img)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// ConvertDocument converts an already decoded image into a document.
func ConvertDocument(cfg Config, img *imaging.Raster) (*svg.Document, error) {
	return convert(cfg.Resolve(), img)
}

func convert(cc ConverterConfig, img *imaging.Raster) (*svg.Document, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no raster", ErrInputUnreadable)
	}
	if len(img.Pix) != img.Area()*4 {
		return nil, fmt.Errorf("%w: raster buffer holds %d bytes, want %d",
			ErrInputUnreadable, len(img.Pix), img.Area()*4)
	}

	if cc.ColorMode == Binary {
		return binaryPipeline(cc, img), nil
	}
	return colorPipeline(cc, img), nil
}

// colorPipeline segments img into layers and traces them bottom to top.
func colorPipeline(cc ConverterConfig, img *imaging.Raster) *svg.Document {
	w, h := img.Width, img.Height

	view := cluster.NewRunner(cc.FirstPass(w, h), img).Run().View()
	if cc.Hierarchical == Cutout {
		flat := view.ToColorImage()
		view = cluster.NewRunner(cc.CutoutPass(w, h), flat).Run().View()
	}

	doc := svg.New(w, h, cc.PathPrecision)
	order := view.ClustersOutput
	for i := len(order) - 1; i >= 0; i-- {
		c := view.Cluster(order[i])
		doc.AddPath(c.ToCompoundPath(cc.Trace), c.ResidueColor())
	}

	logging.Logger.Debug("color pipeline",
		zap.Stringer("hierarchical", cc.Hierarchical),
		zap.Stringer("mode", cc.Trace.Mode),
		zap.Int("paths", doc.Len()))
	return doc
}

// binaryPipeline traces the dark regions of img in black.
func binaryPipeline(cc ConverterConfig, img *imaging.Raster) *svg.Document {
	mask := img.Binarize(func(c imaging.Color) bool { return c.R < 128 })
	view := cluster.FromBinary(mask, false).View()

	doc := svg.New(img.Width, img.Height, cc.PathPrecision)
	dropped := 0
	for _, id := range view.ClustersOutput {
		c := view.Cluster(id)
		if c.Area() < cc.FilterSpeckleArea {
			dropped++
			continue
		}
		doc.AddPath(c.ToCompoundPath(cc.Trace), imaging.Black)
	}

	logging.Logger.Debug("binary pipeline",
		zap.Stringer("mode", cc.Trace.Mode),
		zap.Int("foreground", mask.Count()),
		zap.Int("paths", doc.Len()),
		zap.Int("dropped", dropped))
	return doc
}
