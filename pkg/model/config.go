package model

// NodeConfig is the config.json document the deployed cache node reads at
// startup. It is rendered once during install (or carried verbatim through a
// restore) and persisted inside the state directory. The deployed binary's
// interpretation of these fields is opaque to this tool.
type NodeConfig struct {
	PopName      string       `json:"pop_name"`
	PopLocation  string       `json:"pop_location"`
	Server       ServerConfig `json:"server"`
	CacheConfig  CacheConfig  `json:"cache_config"`
	APIEndpoints APIEndpoints `json:"api_endpoints"`
	Identity     Identity     `json:"identity_config"`
}

// ServerConfig fixes the node's listen surface. Port and HTTPPort are not
// operator-configurable; the container publishes them 1:1 on the host.
type ServerConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	HTTPPort int    `json:"http_port"`
	Workers  int    `json:"workers"`
}

// CacheConfig sizes the node's memory and disk caches.
type CacheConfig struct {
	MemoryCacheSizeMB  int    `json:"memory_cache_size_mb"`
	DiskCachePath      string `json:"disk_cache_path"`
	DiskCacheSizeGB    int    `json:"disk_cache_size_gb"`
	DefaultTTLSeconds  int    `json:"default_ttl_seconds"`
	RespectOrigin      bool   `json:"respect_origin_headers"`
	MaxCacheableSizeMB int    `json:"max_cacheable_size_mb"`
}

// APIEndpoints points the node at the upstream control API.
type APIEndpoints struct {
	BaseURL string `json:"base_url"`
}

// Identity carries the operator-supplied identity fields. None of them are
// validated here; they pass through to the node as entered.
type Identity struct {
	NodeName     string `json:"node_name"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Website      string `json:"website"`
	Discord      string `json:"discord"`
	Telegram     string `json:"telegram"`
	SolanaPubkey string `json:"solana_pubkey"`
}

// Fixed defaults and literals for rendered configs.
const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 443
	DefaultHTTPPort    = 80
	DefaultWorkers     = 0
	DefaultMemoryMB    = 4096
	DefaultDiskGB      = 100
	DefaultTTLSeconds  = 86400
	DefaultMaxObjectMB = 1024
	DiskCachePath      = "/data"
	BaseURL            = "https://dataplane.popnetwork.io"
	WebsitePlaceholder = "https://your-website.example"
)

// NewNodeConfig builds a NodeConfig with every fixed field pinned to its
// default. Callers fill identity, location and cache sizing afterwards.
func NewNodeConfig() NodeConfig {
	return NodeConfig{
		Server: ServerConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			HTTPPort: DefaultHTTPPort,
			Workers:  DefaultWorkers,
		},
		CacheConfig: CacheConfig{
			MemoryCacheSizeMB:  DefaultMemoryMB,
			DiskCachePath:      DiskCachePath,
			DiskCacheSizeGB:    DefaultDiskGB,
			DefaultTTLSeconds:  DefaultTTLSeconds,
			RespectOrigin:      true,
			MaxCacheableSizeMB: DefaultMaxObjectMB,
		},
		APIEndpoints: APIEndpoints{BaseURL: BaseURL},
		Identity:     Identity{Website: WebsitePlaceholder},
	}
}
