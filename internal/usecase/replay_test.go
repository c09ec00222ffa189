package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/rewind/internal/domain"
	"github.com/semmidev/rewind/internal/naming"
)

func TestReplayExecute(t *testing.T) {
	Convey("Given archived segments and a recorded marker", t, func() {
		backupDir := t.TempDir()
		archiveDir := t.TempDir()
		scheme := naming.NewScheme(backupDir)
		server := &fakeServer{active: "mysql-bin.000007"}
		replayer := &fakeReplayer{}
		uc := NewReplay(server, replayer, scheme, "mysql-bin", archiveDir, nopLogger{})

		for _, name := range []string{"mysql-bin.000003", "mysql-bin.000004", "mysql-bin.000005", "mysql-bin.000006"} {
			So(os.WriteFile(filepath.Join(archiveDir, name), []byte(name), 0644), ShouldBeNil)
		}
		marker := scheme.MarkerPath("mydb", "2026-08-30_12.00.00")
		So(os.WriteFile(marker, []byte("mysql-bin.000005\n"), 0644), ShouldBeNil)

		Convey("Replay starts at the marker's segment and runs in order", func() {
			So(uc.Execute(context.Background(), "mydb", ""), ShouldBeNil)
			So(replayer.gotSegments, ShouldResemble, []string{
				filepath.Join(archiveDir, "mysql-bin.000005"),
				filepath.Join(archiveDir, "mysql-bin.000006"),
			})
			So(server.calls, ShouldContain, "flush")
		})

		Convey("A stop time is passed through to the replay tool", func() {
			So(uc.Execute(context.Background(), "mydb", "2026-08-30 11:30:00"), ShouldBeNil)
			So(replayer.gotStop, ShouldEqual, "2026-08-30 11:30:00")
		})

		Convey("A malformed stop time fails before touching the server", func() {
			err := uc.Execute(context.Background(), "mydb", "30/08/2026")
			So(err, ShouldNotBeNil)
			So(server.calls, ShouldBeEmpty)
			So(replayer.called, ShouldBeFalse)
		})

		Convey("A marker past every archived segment replays nothing", func() {
			So(os.WriteFile(marker, []byte("mysql-bin.000099\n"), 0644), ShouldBeNil)
			So(uc.Execute(context.Background(), "mydb", ""), ShouldBeNil)
			So(replayer.called, ShouldBeFalse)
		})

		Convey("A database without a marker cannot be replayed", func() {
			err := uc.Execute(context.Background(), "otherdb", "")
			So(err, ShouldNotBeNil)
			So(domain.IsNotFound(err), ShouldBeTrue)
			So(replayer.called, ShouldBeFalse)
		})
	})
}
