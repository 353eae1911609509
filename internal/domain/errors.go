package domain

import "errors"

// ErrIllustrationNotFound is returned by a messenger when the sticker
// resource does not exist. It is a warning: the text is still sent.
var ErrIllustrationNotFound = errors.New("illustration not found")
