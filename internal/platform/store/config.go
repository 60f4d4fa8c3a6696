package store

import "time"

// Config selects and configures the backends Open connects
type Config struct {
	AppName string

	PG   PGConfig
	CH   CHConfig
	Obj  ObjConfig
	NATS NATSConfig
}

// PGConfig configures the manifest database
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	// LogSQL traces every manifest query; Slow marks the ones worth a warning
	LogSQL bool
	Slow   time.Duration

	Attempts    int
	PingTimeout time.Duration
}

// CHConfig configures the analytical store
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// ObjConfig configures the artifact object store
type ObjConfig struct {
	Enabled bool
	Driver  string // fs | gcs | nats
	Dir     string
	Bucket  string
	Timeout time.Duration
}

// NATSConfig configures the nats object driver
type NATSConfig struct {
	URL string
}
