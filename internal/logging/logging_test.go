package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderFiltersByLevel(t *testing.T) {
	r := &Recorder{}
	r.Info("starting")
	r.Error("call failed", "boom")
	r.Debug("detail")

	errs := r.Entries("ERROR")
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "call failed", errs[0].Message)
		assert.Equal(t, []interface{}{"boom"}, errs[0].Params)
		assert.Equal(t, "call failed boom", errs[0].String())
	}
	assert.Len(t, r.Entries(""), 3)
}

func TestNewSatisfiesLogger(t *testing.T) {
	var l Logger = New(false)
	assert.NotNil(t, l)

	var nop Logger = Nop{}
	nop.Error("ignored")
}
