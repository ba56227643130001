package ranking_test

import (
	"context"
	"testing"

	"github.com/duetlab/duet/internal/adapters/store"
	"github.com/duetlab/duet/internal/domain/model"
	"github.com/duetlab/duet/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRanker_Recommend(t *testing.T) {
	Convey("Given a store with users on both sides", t, func() {
		ctx := context.Background()
		s := store.NewMemStore(ctx)

		put := func(id string, g model.Group, vec []float32) {
			err := s.Put(ctx, model.UserRecord{ID: id, Group: g, Interests: []string{"Books"}}, vec)
			So(err, ShouldBeNil)
		}
		put("m1", model.GroupA, []float32{1, 0})
		put("m2", model.GroupA, []float32{1, 0.1})
		put("f1", model.GroupB, []float32{1, 0})
		put("f2", model.GroupB, []float32{0, 1})
		put("f3", model.GroupB, []float32{0.9, 0.1})

		ranker := ranking.New()

		Convey("When recommending for m1", func() {
			recs, err := ranker.Recommend(ctx, s, "m1", 10)
			So(err, ShouldBeNil)

			Convey("Then the list never contains m1 or same-group users", func() {
				for _, r := range recs {
					So(r.CandidateID, ShouldNotEqual, "m1")
					So(r.CandidateID, ShouldNotEqual, "m2")
					So(r.Group, ShouldEqual, model.GroupB)
				}
			})

			Convey("Then candidates are ordered by descending score", func() {
				So(recs, ShouldHaveLength, 3)
				So(recs[0].CandidateID, ShouldEqual, "f1")
				So(recs[1].CandidateID, ShouldEqual, "f3")
				So(recs[2].CandidateID, ShouldEqual, "f2")
				for i := 1; i < len(recs); i++ {
					So(recs[i].Score, ShouldBeLessThanOrEqualTo, recs[i-1].Score)
				}
			})

			Convey("Then candidate metadata is carried through", func() {
				So(recs[0].Interests, ShouldResemble, []string{"Books"})
			})
		})

		Convey("When k truncates the list", func() {
			recs, err := ranker.Recommend(ctx, s, "m1", 2)
			So(err, ShouldBeNil)
			So(recs, ShouldHaveLength, 2)
			So(recs[0].CandidateID, ShouldEqual, "f1")
		})

		Convey("When k is non-positive the default applies", func() {
			recs, err := ranker.Recommend(ctx, s, "m1", 0)
			So(err, ShouldBeNil)
			So(len(recs), ShouldBeLessThanOrEqualTo, ranking.DefaultTopK)
			So(recs, ShouldHaveLength, 3)
		})

		Convey("When scores tie", func() {
			// f1 and a duplicate direction candidate tie exactly; store
			// insertion order decides.
			put("f4", model.GroupB, []float32{2, 0})
			recs, err := ranker.Recommend(ctx, s, "m1", 10)
			So(err, ShouldBeNil)
			So(recs[0].CandidateID, ShouldEqual, "f1")
			So(recs[1].CandidateID, ShouldEqual, "f4")
		})

		Convey("When the user id is unknown", func() {
			recs, err := ranker.Recommend(ctx, s, "ghost", 5)

			Convey("Then the result is empty with no error", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a store with only one side", t, func() {
		ctx := context.Background()
		s := store.NewMemStore(ctx)
		err := s.Put(ctx, model.UserRecord{ID: "m1", Group: model.GroupA}, []float32{1, 0})
		So(err, ShouldBeNil)

		ranker := ranking.New()

		Convey("Then no eligible candidates yields an empty list", func() {
			recs, err := ranker.Recommend(ctx, s, "m1", 5)
			So(err, ShouldBeNil)
			So(recs, ShouldBeEmpty)
		})
	})
}
