package store

import (
	"time"

	"profitscout/internal/platform/config"
)

// FromEnv reads backend settings from the SERVICE_* scopes under root.
// A backend is enabled when its location is set, unless ENABLED=false
//
//	SERVICE_PGSQL_DBURL, _MAX_CONNS, _SLOW, _LOG_SQL
//	SERVICE_CLICKHOUSE_DBURL
//	SERVICE_OBJECTS_DRIVER (fs|gcs|nats), _DIR, _BUCKET, _TIMEOUT
//	SERVICE_NATS_URL
func FromEnv(root config.Conf, appName, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	ob := root.Prefix("SERVICE_OBJECTS_")
	nc := root.Prefix("SERVICE_NATS_")

	cfg := Config{
		AppName: appName,
		PG: PGConfig{
			URL:      pg.MayString("DBURL", ""),
			MaxConns: int32(pg.MayInt("MAX_CONNS", 4)),
			Slow:     pg.MayDuration("SLOW", 500*time.Millisecond),
			LogSQL:   pg.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			URL:        ch.MayString("DBURL", ""),
			ClientName: appName,
			ClientTag:  tag,
		},
		Obj: ObjConfig{
			Driver:  ob.MayEnum("DRIVER", "fs", "fs", "gcs", "nats"),
			Dir:     ob.MayString("DIR", ""),
			Bucket:  ob.MayString("BUCKET", ""),
			Timeout: ob.MayDuration("TIMEOUT", 10*time.Second),
		},
		NATS: NATSConfig{URL: nc.MayString("URL", "")},
	}
	cfg.PG.Enabled = pg.MayBool("ENABLED", cfg.PG.URL != "")
	cfg.CH.Enabled = ch.MayBool("ENABLED", cfg.CH.URL != "")
	cfg.Obj.Enabled = ob.MayBool("ENABLED", cfg.Obj.Dir != "" || cfg.Obj.Bucket != "")
	return cfg
}
