package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start.
// Required values have no silent defaults; a missing one is a startup error.
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	// Hosted auth platform coordinates. The anon key authenticates relayed
	// function calls, the service key authorizes admin directory operations.
	// The caller's own token is never used for either.
	BackendBaseURL string `envconfig:"backend_base_url" required:"true"`
	AnonAPIKey     string `envconfig:"anon_api_key" required:"true"`
	ServiceAPIKey  string `envconfig:"service_api_key" required:"true"`

	// Bearer token verification for the HTTP API.
	AuthIssuer  string `envconfig:"auth_issuer"`
	AuthJWKSURL string `envconfig:"auth_jwks_url"`

	// Remote invite-function brokering. When hosts are set, POST /api/invite
	// relays to the first candidate that does not answer 404. Empty hosts
	// means the invitation workflow runs locally.
	InviteFunctionHosts []string `envconfig:"invite_function_hosts"`
	InviteFunctionNames []string `envconfig:"invite_function_names" default:"admin-invite-member,admin-invite-member-"`

	InvitationLifetime string `envconfig:"invitation_lifetime" default:"24h"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	DSN string `envconfig:"DSN" required:"true"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	AuthorizationEnabled bool   `envconfig:"authorization_enabled" default:"false"`
	OpenfgaApiScheme     string `envconfig:"openfga_api_scheme" default:""`
	OpenfgaApiHost       string `envconfig:"openfga_api_host"`
	OpenfgaApiToken      string `envconfig:"openfga_api_token"`
	OpenfgaStoreId       string `envconfig:"openfga_store_id"`
	OpenfgaModelId       string `envconfig:"openfga_authorization_model_id" default:""`
}
