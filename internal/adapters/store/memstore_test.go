package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/duetlab/duet/internal/adapters/store"
	"github.com/duetlab/duet/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMemStore(t *testing.T) {
	convey.Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := store.NewMemStore(ctx)

		convey.Convey("When users from both groups are added", func() {
			users := []model.UserRecord{
				{ID: "m1", Group: model.GroupA},
				{ID: "f1", Group: model.GroupB},
				{ID: "m2", Group: model.GroupA},
				{ID: "f2", Group: model.GroupB},
			}
			for _, u := range users {
				err := s.Put(ctx, u, []float32{0.5})
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then IDs keeps insertion order", func() {
				convey.So(s.IDs(ctx), convey.ShouldResemble, []string{"m1", "f1", "m2", "f2"})
				convey.So(s.Len(ctx), convey.ShouldEqual, 4)
			})

			convey.Convey("Then GroupIDs filters one side in insertion order", func() {
				convey.So(s.GroupIDs(ctx, model.GroupA), convey.ShouldResemble, []string{"m1", "m2"})
				convey.So(s.GroupIDs(ctx, model.GroupB), convey.ShouldResemble, []string{"f1", "f2"})
			})

			convey.Convey("Then records and vectors come back by id", func() {
				rec, err := s.Record(ctx, "f1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.Group, convey.ShouldEqual, model.GroupB)

				vec, err := s.Vector(ctx, "m2")
				convey.So(err, convey.ShouldBeNil)
				convey.So(vec, convey.ShouldResemble, []float32{0.5})
			})

			convey.Convey("Then a duplicate id is rejected", func() {
				err := s.Put(ctx, model.UserRecord{ID: "m1", Group: model.GroupA}, []float32{0.1})
				convey.So(errors.Is(err, store.ErrDuplicateUser), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When looking up an unknown id", func() {
			_, err := s.Vector(ctx, "nobody")
			convey.So(errors.Is(err, store.ErrUnknownUser), convey.ShouldBeTrue)

			_, err = s.Record(ctx, "nobody")
			convey.So(errors.Is(err, store.ErrUnknownUser), convey.ShouldBeTrue)
		})

		convey.Convey("When putting a nil vector", func() {
			err := s.Put(ctx, model.UserRecord{ID: "x"}, nil)
			convey.So(errors.Is(err, store.ErrNilVector), convey.ShouldBeTrue)
		})
	})
}
