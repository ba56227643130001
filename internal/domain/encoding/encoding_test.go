package encoding_test

import (
	"testing"

	"github.com/duetlab/duet/internal/domain/encoding"
	"github.com/duetlab/duet/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVocabulary(t *testing.T) {
	Convey("Given an unsorted tag list with duplicates", t, func() {
		vocab := encoding.NewVocabulary([]string{"Gym", "Books", "Coffee", "Books"})

		Convey("Then it should sort and deduplicate", func() {
			So(vocab.Size(), ShouldEqual, 3)
			So(vocab.Tags(), ShouldResemble, []string{"Books", "Coffee", "Gym"})
		})

		Convey("Then positions should follow sorted order", func() {
			pos, ok := vocab.Position("Coffee")
			So(ok, ShouldBeTrue)
			So(pos, ShouldEqual, 1)

			_, ok = vocab.Position("Skydiving")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestEncoder_Encode(t *testing.T) {
	Convey("Given an encoder over [Books Coffee Gym] pinned to year 2026", t, func() {
		vocab := encoding.NewVocabulary([]string{"Books", "Coffee", "Gym"})
		enc := encoding.New(vocab, encoding.WithCurrentYear(2026))

		So(enc.Dimension(), ShouldEqual, 4)

		Convey("When encoding a user with one interest", func() {
			rec := model.UserRecord{
				ID:        "u1",
				Group:     model.GroupA,
				BirthYear: 1996, // age 30
				Interests: []string{"Coffee"},
			}
			vec := enc.Encode(rec)

			Convey("Then the age slot is normalized", func() {
				So(vec[0], ShouldAlmostEqual, 0.5, 1e-6)
			})

			Convey("Then the interest slice is one-hot", func() {
				So(vec[1], ShouldEqual, 0.0)
				So(vec[2], ShouldEqual, 1.0)
				So(vec[3], ShouldEqual, 0.0)
			})

			Convey("Then encoding is deterministic", func() {
				So(enc.Encode(rec), ShouldResemble, vec)
			})
		})

		Convey("When encoding ages outside the window", func() {
			young := enc.Encode(model.UserRecord{ID: "a", BirthYear: 2016}) // age 10
			atMin := enc.Encode(model.UserRecord{ID: "b", BirthYear: 2011}) // age 15
			atMax := enc.Encode(model.UserRecord{ID: "c", BirthYear: 1981}) // age 45
			old := enc.Encode(model.UserRecord{ID: "d", BirthYear: 1966})   // age 60

			Convey("Then ages clamp to the window edges", func() {
				So(young[0], ShouldEqual, float32(0.0))
				So(atMin[0], ShouldEqual, float32(0.0))
				So(atMax[0], ShouldEqual, float32(1.0))
				So(old[0], ShouldEqual, float32(1.0))
			})
		})

		Convey("When encoding a user without a birth year", func() {
			vec := enc.Encode(model.UserRecord{ID: "u2"})

			Convey("Then the default age of 25 is used", func() {
				So(vec[0], ShouldAlmostEqual, 10.0/30.0, 1e-6)
			})
		})

		Convey("When a user has tags outside the vocabulary", func() {
			vec := enc.Encode(model.UserRecord{
				ID:        "u3",
				Interests: []string{"Skydiving", "Books"},
			})

			Convey("Then unknown tags are silently ignored", func() {
				So(vec[1], ShouldEqual, 1.0)
				So(vec[2], ShouldEqual, 0.0)
				So(vec[3], ShouldEqual, 0.0)
			})
		})
	})
}
