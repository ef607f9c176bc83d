package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("http_addr=%q", cfg.Server.HTTPAddr)
	}
	if cfg.IGDB.BaseURL != "https://api.igdb.com/v4" {
		t.Fatalf("igdb base_url=%q", cfg.IGDB.BaseURL)
	}
	if cfg.CatalogSync.PageLimit != 500 || cfg.CatalogSync.MaxPages != 20 {
		t.Fatalf("catalog_sync defaults: %+v", cfg.CatalogSync)
	}
	if !cfg.CatalogSync.Resume {
		t.Fatalf("resume should default on")
	}
	if cfg.Search.Index != "games" {
		t.Fatalf("search index=%q", cfg.Search.Index)
	}
	if cfg.Recommend.TopN != 5 {
		t.Fatalf("top_n=%d", cfg.Recommend.TopN)
	}
	if cfg.Recommend.GenreWeight != 0.4 || cfg.Recommend.KeywordWeight != 0.3 || cfg.Recommend.ThemeWeight != 0.3 {
		t.Fatalf("weights: %+v", cfg.Recommend)
	}
	if cfg.Recommend.SeriesBonus != 0.5 {
		t.Fatalf("series_bonus=%v", cfg.Recommend.SeriesBonus)
	}
	if cfg.Recommend.EmptyPolicy != "zero" {
		t.Fatalf("empty_policy=%q", cfg.Recommend.EmptyPolicy)
	}
}
