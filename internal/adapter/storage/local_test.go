package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLocalMirror(t *testing.T) {
	Convey("Given a LocalMirror", t, func() {
		tempDir, err := os.MkdirTemp("", "local_mirror_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		Convey("NewLocalMirror should create a missing directory", func() {
			nested := filepath.Join(tempDir, "mirror", "nested")
			mirror, err := NewLocalMirror(nested)
			So(err, ShouldBeNil)
			So(mirror, ShouldNotBeNil)

			info, err := os.Stat(nested)
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)
		})

		Convey("Upload", func() {
			mirror, err := NewLocalMirror(filepath.Join(tempDir, "mirror"))
			So(err, ShouldBeNil)

			Convey("When the source exists", func() {
				src := filepath.Join(tempDir, "mydb-2020-01-01_00.00.00.sql.gz")
				So(os.WriteFile(src, []byte("dump bytes"), 0644), ShouldBeNil)

				err := mirror.Upload(context.Background(), src, filepath.Base(src))

				Convey("The file should be copied under the mirror", func() {
					So(err, ShouldBeNil)
					data, err := os.ReadFile(filepath.Join(tempDir, "mirror", filepath.Base(src)))
					So(err, ShouldBeNil)
					So(string(data), ShouldEqual, "dump bytes")
				})
			})

			Convey("When the source is missing", func() {
				err := mirror.Upload(context.Background(), filepath.Join(tempDir, "nope"), "nope")

				Convey("It should fail", func() {
					So(err, ShouldNotBeNil)
				})
			})
		})
	})
}
