// Package worker contiene las goroutines de fondo de la aplicación.
package worker

import (
	"context"
	"time"

	"github.com/liliasabbah32-svg/InventorySystem-sub005/internal/application/lots"
	"github.com/liliasabbah32-svg/InventorySystem-sub005/pkg/logger"
)

// SweeperConfig dependencias del barrido de vencimientos.
type SweeperConfig struct {
	LotUC    *lots.LotUseCase
	Interval time.Duration
	Log      *logger.Logger
}

// StartExpirySweeper lanza una goroutine que cada Interval marca como damaged
// los lotes vencidos que sigan en new o in_use. Respeta el contexto para el
// apagado graceful. Hace una primera pasada al arrancar.
func StartExpirySweeper(ctx context.Context, cfg SweeperConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		cfg.Log.Info().Dur("interval", cfg.Interval).Msg("expiry_sweeper: iniciado")

		sweep(ctx, cfg)
		for {
			select {
			case <-ctx.Done():
				cfg.Log.Info().Msg("expiry_sweeper: apagando")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg SweeperConfig) {
	// companyID vacío: el worker barre todas las empresas
	swept, err := cfg.LotUC.ExpirySweep(ctx, "", time.Now())
	if err != nil {
		cfg.Log.Error().Err(err).Msg("expiry_sweeper: barrido falló")
		return
	}
	if len(swept) > 0 {
		cfg.Log.Info().Int("count", len(swept)).Strs("lot_ids", swept).Msg("expiry_sweeper: lotes vencidos dados de baja")
	}
}
