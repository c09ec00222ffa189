package usecase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/rewind/internal/naming"
)

func TestChangeDetector(t *testing.T) {
	Convey("Given a data directory and a backup directory", t, func() {
		dataDir := t.TempDir()
		backupDir := t.TempDir()
		dbDir := filepath.Join(dataDir, "mydb")
		So(os.Mkdir(dbDir, 0755), ShouldBeNil)

		fixedNow := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		detector := ChangeDetector{
			Scheme:  naming.NewScheme(backupDir),
			DataDir: dataDir,
			Now:     func() time.Time { return fixedNow },
		}

		Convey("A database with no artifact always needs a backup", func() {
			needed, err := detector.ShouldBackup("mydb", false)
			So(err, ShouldBeNil)
			So(needed, ShouldBeTrue)
		})

		Convey("A missing database directory is an error", func() {
			_, err := detector.ShouldBackup("ghost", false)
			So(err, ShouldNotBeNil)
		})

		Convey("With an existing artifact", func() {
			scheme := detector.Scheme
			artifact := scheme.ArtifactPath("mydb", "2026-08-29_10.00.00")
			So(os.WriteFile(artifact, []byte("x"), 0644), ShouldBeNil)

			Convey("A database modified after the artifact needs a backup", func() {
				old := fixedNow.Add(-2 * time.Hour)
				So(os.Chtimes(artifact, old, old), ShouldBeNil)
				So(os.Chtimes(dbDir, fixedNow, fixedNow), ShouldBeNil)

				needed, err := detector.ShouldBackup("mydb", false)
				So(err, ShouldBeNil)
				So(needed, ShouldBeTrue)
			})

			Convey("An unchanged database is skipped and the artifact touched", func() {
				old := fixedNow.Add(-2 * time.Hour)
				So(os.Chtimes(dbDir, old, old), ShouldBeNil)
				So(os.Chtimes(artifact, old.Add(time.Hour), old.Add(time.Hour)), ShouldBeNil)

				needed, err := detector.ShouldBackup("mydb", false)
				So(err, ShouldBeNil)
				So(needed, ShouldBeFalse)

				info, err := os.Stat(artifact)
				So(err, ShouldBeNil)
				So(info.ModTime().Equal(fixedNow), ShouldBeTrue)
			})

			Convey("Force overrides the skip but still touches the artifact", func() {
				old := fixedNow.Add(-2 * time.Hour)
				So(os.Chtimes(dbDir, old, old), ShouldBeNil)
				So(os.Chtimes(artifact, old.Add(time.Hour), old.Add(time.Hour)), ShouldBeNil)

				needed, err := detector.ShouldBackup("mydb", true)
				So(err, ShouldBeNil)
				So(needed, ShouldBeTrue)

				info, err := os.Stat(artifact)
				So(err, ShouldBeNil)
				So(info.ModTime().Equal(fixedNow), ShouldBeTrue)
			})
		})
	})
}
