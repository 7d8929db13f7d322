package universe

import "github.com/pkg/errors"

var (
	//ErrDimensionMismatch is returned when the cells buffer length differs from height*width
	ErrDimensionMismatch = errors.New("cells buffer does not match the universe dimensions")
	//ErrInvalidDimensions is returned when the height or the width is less than 1
	ErrInvalidDimensions = errors.New("universe dimensions must be positive")
	//ErrRaggedRows is returned by Parse when rows have different lengths
	ErrRaggedRows = errors.New("pattern rows have different lengths")
	//ErrUnknownSymbol is returned by Parse for a rune that is neither alive nor dead
	ErrUnknownSymbol = errors.New("unknown cell symbol")
)

func checkDimensions(height int, width int) error {
	if height < 1 || width < 1 {
		return errors.Wrapf(ErrInvalidDimensions, "height %d, width %d", height, width)
	}
	return nil
}
