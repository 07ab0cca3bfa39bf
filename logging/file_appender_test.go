package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestFileAppender(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "regionplan.log")
	appender := NewFileAppender(filename, 1)

	logger := NewBlankLogger("file")
	logger.AddAppender(appender)
	logger.Infow("local search failed", "expansions", 12)
	test.That(t, logger.Sync(), test.ShouldBeNil)
	test.That(t, appender.Close(), test.ShouldBeNil)

	contents, err := os.ReadFile(filename)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(contents), test.ShouldContainSubstring, "INFO\tfile")
	test.That(t, string(contents), test.ShouldContainSubstring, `local search failed`)
	test.That(t, string(contents), test.ShouldContainSubstring, `{"expansions":12}`)
}
