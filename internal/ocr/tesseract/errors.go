package tesseract

import (
	"fmt"

	"github.com/itsmostafa/yearbook/internal/ocr"
)

// ErrUnavailable is returned when the binary was built without cgo.
var ErrUnavailable = fmt.Errorf("%w: tesseract needs a cgo build (CGO_ENABLED=1)", ocr.ErrEngineUnavailable)
