package engine

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/semmidev/rewind/internal/domain"
)

type stubLister struct {
	engines []string
	err     error
}

func (s *stubLister) TableEngines(ctx context.Context, db string) ([]string, error) {
	return s.engines, s.err
}

func TestClassify(t *testing.T) {
	Convey("Given table engine listings", t, func() {
		ctx := context.Background()

		Convey("All-InnoDB tables should classify as AllInnoDB", func() {
			class, err := Classify(ctx, &stubLister{engines: []string{"InnoDB", "InnoDB"}}, "mydb")
			So(err, ShouldBeNil)
			So(class, ShouldEqual, domain.EngineAllInnoDB)
		})

		Convey("A mixed database should classify as Other", func() {
			class, err := Classify(ctx, &stubLister{engines: []string{"InnoDB", "MyISAM"}}, "mydb")
			So(err, ShouldBeNil)
			So(class, ShouldEqual, domain.EngineOther)
		})

		Convey("A database without tables should classify as Other", func() {
			class, err := Classify(ctx, &stubLister{}, "mydb")
			So(err, ShouldBeNil)
			So(class, ShouldEqual, domain.EngineOther)
		})

		Convey("A failed query should propagate, not default", func() {
			boom := errors.New("connection refused")
			_, err := Classify(ctx, &stubLister{err: boom}, "mydb")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}
