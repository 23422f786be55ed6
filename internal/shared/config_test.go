package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "PAGE_SIZE", "JWT_SECRET", "TOKEN_TTL_MINUTES", "CACHE_TTL_SECONDS"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.StoreDriver != "file" || c.PageSize != 5 {
		t.Fatalf("defaults: %+v", c)
	}
	if c.JWTSecret != devJWTSecret {
		t.Fatalf("empty JWT_SECRET should fall back to the dev secret")
	}
	if c.TokenTTL != 24*time.Hour || c.CacheTTL != 15*time.Minute {
		t.Fatalf("ttl defaults: %v %v", c.TokenTTL, c.CacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOGIN_RATE_PER_MIN", "not-a-number")
	c := Load()
	if c.StoreDriver != "mysql" || c.PageSize != 10 || c.JWTSecret != "s3cret" {
		t.Fatalf("overrides: %+v", c)
	}
	if c.LoginRatePerMin != 10 {
		t.Fatalf("bad number should keep default, got %d", c.LoginRatePerMin)
	}
	if len(c.TrustedProxies) != 0 {
		t.Fatalf("no proxies are trusted by default: %v", c.TrustedProxies)
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,127.0.0.1 ")
	c := Load()
	if len(c.TrustedProxies) != 2 || c.TrustedProxies[0] != "10.0.0.0/8" || c.TrustedProxies[1] != "127.0.0.1" {
		t.Fatalf("proxies: %q", c.TrustedProxies)
	}
}
