package provision_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/okian/dailyword/internal/adapters/repository"
	"github.com/okian/dailyword/internal/domain/model"
	"github.com/okian/dailyword/internal/provision"
	"github.com/okian/dailyword/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	Convey("Given a seed file", t, func() {
		Convey("When it is well formed", func() {
			path := writeSeed(t, `
words:
  - id: w-1
    primary: " DOOR "
    secondary: puerta
  - primary: SUN
    secondary: sol
`)
			seed, err := provision.LoadFile(path)

			Convey("Then entries are parsed and trimmed", func() {
				So(err, ShouldBeNil)
				So(seed.Words, ShouldHaveLength, 2)
				So(seed.Words[0], ShouldResemble, provision.Entry{ID: "w-1", Primary: "DOOR", Secondary: "puerta"})
				So(seed.Words[1].ID, ShouldEqual, "")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := provision.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))

			Convey("Then ErrInvalidSeed is returned", func() {
				So(errors.Is(err, provision.ErrInvalidSeed), ShouldBeTrue)
			})
		})

		Convey("When the file has no words", func() {
			_, err := provision.LoadFile(writeSeed(t, "words: []\n"))
			So(errors.Is(err, provision.ErrInvalidSeed), ShouldBeTrue)
		})
	})
}

func TestSeed_Validate(t *testing.T) {
	Convey("Given seeds with problems", t, func() {
		Convey("An empty secondary word is rejected", func() {
			s := &provision.Seed{Words: []provision.Entry{{Primary: "SUN", Secondary: "  "}}}
			So(errors.Is(s.Validate(), provision.ErrInvalidSeed), ShouldBeTrue)
		})

		Convey("A repeated id is rejected", func() {
			s := &provision.Seed{Words: []provision.Entry{
				{ID: "a", Primary: "SUN", Secondary: "sol"},
				{ID: "a", Primary: "MOON", Secondary: "luna"},
			}}
			err := s.Validate()
			So(errors.Is(err, provision.ErrInvalidSeed), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `"a"`)
		})

		Convey("Entries without ids never collide", func() {
			s := &provision.Seed{Words: []provision.Entry{
				{Primary: "SUN", Secondary: "sol"},
				{Primary: "MOON", Secondary: "luna"},
			}}
			So(s.Validate(), ShouldBeNil)
		})
	})
}

func TestSeeder_Apply(t *testing.T) {
	Convey("Given a memory store with one used word", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(model.WordRecord{
			ID: "w-1", WordPrimary: "DOOR", WordSecondary: "puerta",
			ActiveDate: model.Date("2025-03-01"), LastUsedDate: model.Date("2025-03-01"), TimesUsed: 4,
		})

		n := 0
		ids := func() (uuid.UUID, error) {
			n++
			return uuid.MustParse("01900000-0000-7000-8000-00000000000" + string(rune('0'+n))), nil
		}
		seeder := provision.New(store, provision.WithIDGenerator(ids), provision.WithLogger(logger.Discard()))

		Convey("When a seed updates it and adds new words", func() {
			seed := &provision.Seed{Words: []provision.Entry{
				{ID: "w-1", Primary: "DOOR", Secondary: "portal"},
				{Primary: "SUN", Secondary: "sol"},
				{Primary: "SUN", Secondary: "sol"},
			}}
			report, err := seeder.Apply(ctx, seed)

			Convey("Then new ids are generated once per pair", func() {
				So(err, ShouldBeNil)
				So(report, ShouldResemble, provision.Report{Entries: 3, Inserted: 1, Updated: 2})
				So(n, ShouldEqual, 1)

				all, _ := store.List(ctx)
				So(all, ShouldHaveLength, 2)
				So(all[0].ID, ShouldEqual, "01900000-0000-7000-8000-000000000001")
			})

			Convey("And the existing rotation state is kept", func() {
				all, _ := store.List(ctx)
				So(all[0].ID, ShouldEqual, "01900000-0000-7000-8000-000000000001")
				So(all[1].ID, ShouldEqual, "w-1")
				So(all[1].WordSecondary, ShouldEqual, "portal")
				So(all[1].TimesUsed, ShouldEqual, 4)
				So(*all[1].ActiveDate, ShouldEqual, "2025-03-01")
			})
		})

		Convey("When the same seed is applied twice", func() {
			seed := &provision.Seed{Words: []provision.Entry{{Primary: "MOON", Secondary: "luna"}}}
			_, err := seeder.Apply(ctx, seed)
			So(err, ShouldBeNil)
			report, err := seeder.Apply(ctx, seed)

			Convey("Then the second run inserts nothing", func() {
				So(err, ShouldBeNil)
				So(report.Inserted, ShouldEqual, 0)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When the id source fails", func() {
			boom := errors.New("no entropy")
			s := provision.New(store,
				provision.WithIDGenerator(func() (uuid.UUID, error) { return uuid.Nil, boom }),
				provision.WithLogger(logger.Discard()))
			_, err := s.Apply(ctx, &provision.Seed{Words: []provision.Entry{{Primary: "SKY", Secondary: "cielo"}}})

			Convey("Then the error is returned", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When the store is closed", func() {
			_ = store.Close()
			_, err := seeder.Apply(ctx, &provision.Seed{Words: []provision.Entry{{Primary: "SKY", Secondary: "cielo"}}})

			Convey("Then the store error is wrapped", func() {
				So(errors.Is(err, repository.ErrStoreClosed), ShouldBeTrue)
			})
		})
	})
}
