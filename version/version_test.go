package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFprintVersion(t *testing.T) {
	defer func(v, r string) { Version, Revision = v, r }(Version, Revision)

	Version, Revision = "v1.2.3", ""
	var buf bytes.Buffer
	FprintVersion(&buf)
	assert.True(t, strings.HasSuffix(buf.String(), " github.com/moby/fdbkit v1.2.3\n"), buf.String())

	Revision = "abcdef"
	buf.Reset()
	FprintVersion(&buf)
	assert.True(t, strings.HasSuffix(buf.String(), " v1.2.3 abcdef\n"), buf.String())
}
