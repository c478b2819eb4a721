package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rl1809/shopcore/internal/adapter/trust"
)

const (
	DefaultOrderTopic      = "order-placed"
	DefaultUpstreamTimeout = 3 * time.Second

	defaultMySQLDSN = "root:root@tcp(localhost:3306)/shopcore?parseTime=true&timeout=3s&readTimeout=5s&writeTimeout=5s"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Common is shared by every service.
type Common struct {
	Service         string
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	OtelEndpoint    string
	UpstreamTimeout time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

type Identity struct {
	Common
	MySQLDSN    string
	GRPCAddr    string
	JWTSecret   []byte
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	TrustedCIDR []string
	AdminEmails []string
}

type Catalog struct {
	Common
	MySQLDSN string
	GRPCAddr string
	// SeedFile optionally lists products to upsert at startup.
	SeedFile string
}

type Cart struct {
	Common
	Store             string
	RedisAddr         string
	ProductLookupAddr string
	TrustedCIDR       []string
}

type Order struct {
	Common
	MySQLDSN       string
	Kafka          Kafka
	UserLookupAddr string
	TrustedCIDR    []string
	Workers        int
	QueueSize      int
	OutboxGrace    time.Duration
	OutboxInterval time.Duration
}

type Inventory struct {
	Common
	MySQLDSN       string
	Kafka          Kafka
	OptimisticLock bool
	TrustedCIDR    []string
}

type Notification struct {
	Common
	RedisAddr string
	Kafka     Kafka
	DedupTTL  time.Duration
}

func loadCommon(service, defaultAddr string) (Common, error) {
	timeout, err := getDuration("UPSTREAM_TIMEOUT", DefaultUpstreamTimeout)
	if err != nil {
		return Common{}, err
	}
	return Common{
		Service:         service,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		HTTPAddr:        getEnv("HTTP_ADDR", defaultAddr),
		OtelEndpoint:    os.Getenv("OTEL_ENDPOINT"),
		UpstreamTimeout: timeout,
	}, nil
}

func loadKafka(defaultGroup string) Kafka {
	return Kafka{
		Brokers: getList("KAFKA_BROKERS", "localhost:9092"),
		Topic:   getEnv("ORDER_TOPIC", DefaultOrderTopic),
		GroupID: getEnv("KAFKA_GROUP_ID", defaultGroup),
	}
}

func trustedCIDRs() []string {
	return getList("TRUSTED_PROXY_CIDRS", strings.Join(trust.DefaultTrustedCIDRs, ","))
}

func LoadIdentity() (*Identity, error) {
	common, err := loadCommon("identity", ":8081")
	if err != nil {
		return nil, err
	}
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}
	accessTTL, err := getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &Identity{
		Common:      common,
		MySQLDSN:    getEnv("MYSQL_DSN", defaultMySQLDSN),
		GRPCAddr:    getEnv("GRPC_ADDR", ":50061"),
		JWTSecret:   secret,
		AccessTTL:   accessTTL,
		RefreshTTL:  refreshTTL,
		TrustedCIDR: trustedCIDRs(),
		AdminEmails: getList("ADMIN_EMAILS", ""),
	}, nil
}

func LoadCatalog() (*Catalog, error) {
	common, err := loadCommon("catalog", ":8082")
	if err != nil {
		return nil, err
	}
	return &Catalog{
		Common:   common,
		MySQLDSN: getEnv("MYSQL_DSN", defaultMySQLDSN),
		GRPCAddr: getEnv("GRPC_ADDR", ":50062"),
		SeedFile: os.Getenv("CATALOG_SEED"),
	}, nil
}

func LoadCart() (*Cart, error) {
	common, err := loadCommon("cart", ":8083")
	if err != nil {
		return nil, err
	}
	store := getEnv("CART_STORE", "redis")
	if store != "redis" && store != "memory" {
		return nil, fmt.Errorf("CART_STORE must be redis or memory, got %q", store)
	}
	return &Cart{
		Common:            common,
		Store:             store,
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		ProductLookupAddr: getEnv("PRODUCT_LOOKUP_ADDR", "localhost:50062"),
		TrustedCIDR:       trustedCIDRs(),
	}, nil
}

func LoadOrder() (*Order, error) {
	common, err := loadCommon("order", ":8084")
	if err != nil {
		return nil, err
	}
	workers, err := getInt("ORDER_PUBLISH_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	queue, err := getInt("ORDER_PUBLISH_QUEUE", 1000)
	if err != nil {
		return nil, err
	}
	grace, err := getDuration("OUTBOX_GRACE", 30*time.Second)
	if err != nil {
		return nil, err
	}
	interval, err := getDuration("OUTBOX_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}
	return &Order{
		Common:         common,
		MySQLDSN:       getEnv("MYSQL_DSN", defaultMySQLDSN),
		Kafka:          loadKafka("order-service"),
		UserLookupAddr: getEnv("USER_LOOKUP_ADDR", "localhost:50061"),
		TrustedCIDR:    trustedCIDRs(),
		Workers:        workers,
		QueueSize:      queue,
		OutboxGrace:    grace,
		OutboxInterval: interval,
	}, nil
}

func LoadInventory() (*Inventory, error) {
	common, err := loadCommon("inventory", ":8085")
	if err != nil {
		return nil, err
	}
	optimistic, err := getBool("INVENTORY_OPTIMISTIC_LOCK", false)
	if err != nil {
		return nil, err
	}
	return &Inventory{
		Common:         common,
		MySQLDSN:       getEnv("MYSQL_DSN", defaultMySQLDSN),
		Kafka:          loadKafka("inventory-group"),
		OptimisticLock: optimistic,
		TrustedCIDR:    trustedCIDRs(),
	}, nil
}

func LoadNotification() (*Notification, error) {
	common, err := loadCommon("notification", ":8086")
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("NOTIFY_DEDUP_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &Notification{
		Common:    common,
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		Kafka:     loadKafka("notification-group"),
		DedupTTL:  ttl,
	}, nil
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return []byte(secret), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: invalid positive integer %q", key, raw)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q", key, raw)
	}
	return b, nil
}
