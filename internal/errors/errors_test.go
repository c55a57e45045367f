package errors

import (
	e "errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	err := e.New("some error")
	if IsNotFound(err) {
		t.Log("custom error type NotFound is wrongly recognized")
		t.Fail()
	}

	err = asNotFound(err)
	if !IsNotFound(err) {
		t.Log("custom error type NotFound is not recognized")
		t.Fail()
	}

	err = Wrap(err, "page %d", 3)
	if !IsNotFound(err) {
		t.Log("wrapped NotFound is not recognized")
		t.Fail()
	}
}

func TestIsFormatError(t *testing.T) {
	err := fmt.Errorf("read footer: %w", NewFormatError(MissingTail, 120, `"tail"`, `"abcd"`))
	if !IsFormatError(err, MissingTail) {
		t.Errorf("wrapped format error is not recognized")
	}
	if IsFormatError(err, UnknownType) {
		t.Errorf("format error matched the wrong kind")
	}

	expected := `sntool: missing tail at offset 120: expected "tail", found "abcd"`
	if err.(interface{ Unwrap() error }).Unwrap().Error() != expected {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestIsBuilderError(t *testing.T) {
	err := NewBuilderError(DuplicateBlockName, "PAGE1/metadata")
	if !IsBuilderError(err, DuplicateBlockName) {
		t.Errorf("builder error is not recognized")
	}
	if IsBuilderError(e.New("x"), DuplicateBlockName) {
		t.Errorf("plain error recognized as builder error")
	}
	if err.Error() != `sntool: duplicate block name: "PAGE1/metadata"` {
		t.Errorf("unexpected message: %v", err)
	}
}
