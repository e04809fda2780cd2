package editor

import (
	"errors"
	"fmt"
)

// Mode is the editor's edit state.
type Mode int

const (
	ModeOff Mode = iota
	ModeRender
	ModeShape
	ModeBatchSelect
	ModeBatchScale
	ModeBatchMove
	ModeBatchFlipX
	ModeBatchFlipY
)

var modeNames = [...]string{
	ModeOff:         "off",
	ModeRender:      "render",
	ModeShape:       "shape",
	ModeBatchSelect: "batchSelect",
	ModeBatchScale:  "batchScale",
	ModeBatchMove:   "batchMove",
	ModeBatchFlipX:  "batchFlipX",
	ModeBatchFlipY:  "batchFlipY",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// IsBatch reports whether m operates on the multi-selection.
func (m Mode) IsBatch() bool {
	return m >= ModeBatchSelect && m <= ModeBatchFlipY
}

// ErrInvalidTransition is returned by SetEditMode for a move the state
// machine does not allow. The mode is left unchanged.
var ErrInvalidTransition = errors.New("invalid edit mode transition")

// transitions lists the allowed targets per mode. Every editing mode may
// also go to ModeOff, and a mode may always be re-entered.
var transitions = map[Mode][]Mode{
	ModeOff:         {ModeRender},
	ModeRender:      {ModeShape, ModeBatchSelect},
	ModeShape:       {ModeRender, ModeBatchSelect},
	ModeBatchSelect: {ModeRender, ModeBatchScale, ModeBatchMove, ModeBatchFlipX, ModeBatchFlipY},
	ModeBatchScale:  {ModeRender, ModeBatchSelect, ModeBatchMove, ModeBatchFlipX, ModeBatchFlipY},
	ModeBatchMove:   {ModeRender, ModeBatchSelect, ModeBatchScale, ModeBatchFlipX, ModeBatchFlipY},
	ModeBatchFlipX:  {ModeRender, ModeBatchSelect},
	ModeBatchFlipY:  {ModeRender, ModeBatchSelect},
}

func canTransition(from, to Mode) bool {
	if from == to {
		return true
	}
	if from != ModeOff && to == ModeOff {
		return true
	}
	for _, m := range transitions[from] {
		if m == to {
			return true
		}
	}
	return false
}
