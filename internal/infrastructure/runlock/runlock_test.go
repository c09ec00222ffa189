package runlock

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLock(t *testing.T) {
	Convey("Given a lock directory", t, func() {
		tempDir, err := os.MkdirTemp("", "runlock_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		Convey("When acquiring a free lock", func() {
			lock, err := Acquire(tempDir, "run.lock")

			Convey("It should succeed", func() {
				So(err, ShouldBeNil)
				So(lock, ShouldNotBeNil)
				So(lock.Release(), ShouldBeNil)
			})

			Convey("A second acquisition in the same process should fail while held", func() {
				// flock is per file description, so re-acquire via a fresh
				// handle to simulate a second run.
				defer lock.Release()
				_, err := Acquire(tempDir, "run.lock")
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "another run")
			})

			Convey("Releasing should free the lock for the next run", func() {
				So(lock.Release(), ShouldBeNil)
				next, err := Acquire(tempDir, "run.lock")
				So(err, ShouldBeNil)
				So(next.Release(), ShouldBeNil)
			})
		})

		Convey("When the lock directory does not exist yet", func() {
			lock, err := Acquire(tempDir+"/nested/dir", "run.lock")

			Convey("It should be created", func() {
				So(err, ShouldBeNil)
				So(lock.Release(), ShouldBeNil)
			})
		})
	})
}
