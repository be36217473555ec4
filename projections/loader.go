package projections

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zcuddihy/ff-draft-app/cache"
	"github.com/zcuddihy/ff-draft-app/config"
	"github.com/zcuddihy/ff-draft-app/league"
	"github.com/zcuddihy/ff-draft-app/player"
)

// LoadPlayers reads the league's season of projections, from the SQLite
// database if one is configured and from the season's projections CSV
// otherwise, and values every player with the model for the league's
// scoring mode. File-based inputs are cached for the life of the process.
func LoadPlayers(ctx context.Context, cfg *config.Config, settings *league.Settings) ([]*player.Player, error) {
	season := settings.Season
	var projs []Projection
	if dbPath := cfg.GetString(config.ConfigProjectionsDB); dbPath != "" {
		src, err := OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		if projs, err = src.Projections(ctx, season); err != nil {
			return nil, err
		}
	} else {
		obj, err := cache.Load(cfg, "projections:"+cfg.ProjectionsFile(season), CSVCacheLoadFunc)
		if err != nil {
			return nil, err
		}
		var ok bool
		if projs, ok = obj.([]Projection); !ok {
			return nil, fmt.Errorf("cached projections have type %T", obj)
		}
	}

	obj, err := cache.Load(cfg, "valuemodel:"+cfg.ValueModelFile(string(settings.Scoring)), ValueModelCacheLoadFunc)
	if err != nil {
		return nil, err
	}
	model, ok := obj.(*ValueModel)
	if !ok {
		return nil, fmt.Errorf("cached value model has type %T", obj)
	}
	players, err := Players(projs, model)
	if err != nil {
		return nil, err
	}
	log.Info().Int("season", season).Str("scoring", string(settings.Scoring)).
		Int("players", len(players)).Msg("loaded-players")
	return players, nil
}
