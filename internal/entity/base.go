package entity

import (
	"strings"
	"time"

	"github.com/mbeoliero/threadly/pkg/constant"
)

// TimeLabel formats t as the display label used for messages and previews
func TimeLabel(t time.Time) string {
	return t.Format(constant.TimeLabelLayout)
}

// IsBlank reports whether text has no visible characters
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
