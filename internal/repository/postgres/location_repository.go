package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/location-map/internal/domain"
	"github.com/location-map/internal/domain/repository"
	"go.uber.org/zap"
)

type locationRepository struct {
	db *DB
}

// NewLocationRepository читает таблицу "Locations" напрямую из Postgres
func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

// listLocationsQuery строится из той же проекции, что и REST запрос.
// Имена колонок в смешанном регистре требуют кавычек.
var listLocationsQuery = buildSelect(domain.LocationsTable, domain.LocationColumns)

func buildSelect(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + c + `"`
	}
	return fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY "id"`, strings.Join(quoted, ", "), table)
}

func (r *locationRepository) ListLocations(ctx context.Context) ([]domain.LocationRecord, error) {
	rows := make([]domain.LocationRecord, 0)
	if err := r.db.SelectContext(ctx, &rows, listLocationsQuery); err != nil {
		r.db.logger.Debug("Locations query failed", zap.String("query", listLocationsQuery), zap.Error(err))
		return nil, fmt.Errorf("select %s: %w", domain.LocationsTable, err)
	}
	return rows, nil
}
