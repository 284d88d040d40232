package declare

import "time"

// document is the YAML schema.
type document struct {
	Services map[string]serviceSpec `yaml:"services"`
	Waits    []waitSpec             `yaml:"waits"`
	Wait     *waitSpec              `yaml:"wait"`
}

type serviceSpec struct {
	Host  string      `yaml:"host"`
	Ports map[int]int `yaml:"ports"`
}

type waitSpec struct {
	Description    string        `yaml:"description"`
	Timeout        time.Duration `yaml:"timeout"`
	Interval       time.Duration `yaml:"interval"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	nodeSpec       `yaml:",inline"`
}

// nodeSpec is a cluster-level check: a check against one or more services,
// or a composite of further nodes.
type nodeSpec struct {
	Service  string     `yaml:"service"`
	Services []string   `yaml:"services"`
	Check    *checkSpec `yaml:"check"`
	Any      []nodeSpec `yaml:"any"`
	All      []nodeSpec `yaml:"all"`
}

type checkSpec struct {
	TCP      *tcpSpec      `yaml:"tcp"`
	Ports    *portsSpec    `yaml:"ports"`
	HTTP     *httpSpec     `yaml:"http"`
	Postgres *postgresSpec `yaml:"postgres"`
	GRPC     *grpcSpec     `yaml:"grpc"`
	Redis    *redisSpec    `yaml:"redis"`
}

type tcpSpec struct {
	Port int `yaml:"port"`
}

type portsSpec struct{}

type httpSpec struct {
	Port        int      `yaml:"port"`
	Path        string   `yaml:"path"`
	Scheme      string   `yaml:"scheme"`
	URL         string   `yaml:"url"`
	Method      string   `yaml:"method"`
	Status      int      `yaml:"status"`
	BearerToken string   `yaml:"bearer_token"`
	JWT         *jwtSpec `yaml:"jwt"`
}

type jwtSpec struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Subject  string        `yaml:"subject"`
	Audience []string      `yaml:"audience"`
	TTL      time.Duration `yaml:"ttl"`
}

type postgresSpec struct {
	Port int    `yaml:"port"`
	DSN  string `yaml:"dsn"`
}

type grpcSpec struct {
	Port    int    `yaml:"port"`
	Service string `yaml:"service"`
}

type redisSpec struct {
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}
