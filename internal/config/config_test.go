package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/dailyword/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Timezone, convey.ShouldEqual, "Europe/Madrid")
			convey.So(cfg.CooldownDays, convey.ShouldEqual, 30)
			convey.So(cfg.UsageShare, convey.ShouldEqual, 0.3)
			convey.So(cfg.FallbackPrimary, convey.ShouldEqual, "EXPLORE")
			convey.So(cfg.FallbackSecondary, convey.ShouldEqual, "explorar")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
			convey.So(cfg.StoreTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Origins(t *testing.T) {
	convey.Convey("Given a comma separated origin list", t, func() {
		cfg := config.New()
		cfg.AllowedOrigins = " https://a.example , ,https://b.example"

		convey.Convey("Then blanks are dropped and entries trimmed", func() {
			convey.So(cfg.Origins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
		})
	})
}

func TestConfig_Store(t *testing.T) {
	convey.Convey("Given store settings", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "postgres"
		cfg.StoreDSN = "postgres://localhost/words"
		cfg.StoreMaxOpenConns = 12
		cfg.StoreConnLifetimeS = 90

		convey.Convey("Then they map onto the repository config", func() {
			rc := cfg.Store()
			convey.So(rc.Driver, convey.ShouldEqual, "postgres")
			convey.So(rc.DSN, convey.ShouldEqual, "postgres://localhost/words")
			convey.So(rc.MongoDatabase, convey.ShouldEqual, "dailyword")
			convey.So(rc.Timeout, convey.ShouldEqual, 5*time.Second)
			convey.So(rc.MaxOpenConns, convey.ShouldEqual, 12)
			convey.So(rc.MaxIdleConns, convey.ShouldEqual, 0)
			convey.So(rc.ConnMaxLifetime, convey.ShouldEqual, 90*time.Second)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break an invariant", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
			want   string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }, "addr"},
			{"empty timezone", func(c *config.Config) { c.Timezone = " " }, "timezone"},
			{"unknown driver", func(c *config.Config) { c.StoreDriver = "oracle" }, "store_driver"},
			{"postgres without dsn", func(c *config.Config) { c.StoreDriver = "postgres" }, "store_dsn"},
			{"negative cooldown", func(c *config.Config) { c.CooldownDays = -1 }, "cooldown_days"},
			{"zero share", func(c *config.Config) { c.UsageShare = 0 }, "usage_share"},
			{"share above one", func(c *config.Config) { c.UsageShare = 1.5 }, "usage_share"},
			{"negative timeout", func(c *config.Config) { c.StoreTimeoutMS = -5 }, "store_timeout_ms"},
			{"negative pool", func(c *config.Config) { c.StoreMaxOpenConns = -1 }, "pool"},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
		}
	})

	convey.Convey("Given sqlite without a dsn", t, func() {
		cfg := config.New()
		cfg.StoreDriver = "sqlite"

		convey.Convey("Then it is valid and runs in memory", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
