package cache

import (
	"net/url"
	"strings"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "simple endpoint no params",
			key:  CacheKey{Namespace: "rawg", Endpoint: "/games/"},
			want: "kaios:rawg:games",
		},
		{
			name: "endpoint with path params",
			key: CacheKey{
				Namespace:  "rawg",
				Endpoint:   "/games/{id}",
				PathParams: map[string]string{"id": "3498"},
			},
			want: "kaios:rawg:games/{id}:id=3498",
		},
		{
			name: "query params sorted",
			key: CacheKey{
				Namespace: "rawg",
				Endpoint:  "/games",
				QueryParams: url.Values{
					"search":    []string{"zelda"},
					"page":      []string{"2"},
					"page_size": []string{"20"},
				},
			},
			want: "kaios:rawg:games:page=2:page_size=20:search=zelda",
		},
		{
			name: "query values lowercased",
			key: CacheKey{
				Namespace:   "play",
				Endpoint:    "/search",
				QueryParams: url.Values{"q": []string{"Minecraft"}},
			},
			want: "kaios:play:search:q=minecraft",
		},
		{
			name: "no namespace",
			key:  CacheKey{Endpoint: "/games"},
			want: "kaios:games",
		},
		{
			name: "deterministic ordering with multiple path params",
			key: CacheKey{
				Namespace: "rawg",
				Endpoint:  "/x",
				PathParams: map[string]string{
					"z": "1",
					"a": "2",
					"m": "3",
				},
			},
			want: "kaios:rawg:x:a=2:m=3:z=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("CacheKey.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheKey_String_Deterministic(t *testing.T) {
	key := CacheKey{
		Namespace:   "rawg",
		Endpoint:    "/games",
		PathParams:  map[string]string{"b": "2", "a": "1"},
		QueryParams: url.Values{"y": []string{"2"}, "x": []string{"1"}},
	}

	first := key.String()
	for i := 0; i < 100; i++ {
		if got := key.String(); got != first {
			t.Fatalf("CacheKey.String() not deterministic: %v != %v", got, first)
		}
	}
}

func TestCacheKey_String_LongKeyCompacted(t *testing.T) {
	long := strings.Repeat("final fantasy ", 30)
	key := CacheKey{
		Namespace:   "rawg",
		Endpoint:    "/games",
		QueryParams: url.Values{"search": []string{long}},
	}

	got := key.String()
	if len(got) > MaxKeyLength {
		t.Errorf("len(String()) = %d, want <= %d", len(got), MaxKeyLength)
	}
	if !strings.HasPrefix(got, "kaios:rawg:h:") {
		t.Errorf("String() = %v, want prefix kaios:rawg:h:", got)
	}
	if got != key.String() {
		t.Error("compacted key not deterministic")
	}

	other := CacheKey{
		Namespace:   "rawg",
		Endpoint:    "/games",
		QueryParams: url.Values{"search": []string{long + "x"}},
	}
	if other.String() == got {
		t.Error("different long keys compacted to the same digest")
	}
}
