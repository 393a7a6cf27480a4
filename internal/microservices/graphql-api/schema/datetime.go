package schema

import (
	"log/slog"

	"bookgraph/internal/metrics"
	"bookgraph/internal/scalar"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// NewDateTimeScalar binds a Coercer to the engine's scalar hooks.
//
// The engine signals parse failures with a nil result, which it reports as an
// input coercion error. Serialize failures panic with the SerializationError;
// the executor recovers field panics into a located entry in "errors" and
// nulls only that field.
func NewDateTimeScalar(c scalar.Coercer, m *metrics.Metrics, logger *slog.Logger) *graphql.Scalar {
	if logger == nil {
		logger = slog.Default()
	}
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:        scalar.Name,
		Description: scalar.Description,
		Serialize: func(value interface{}) interface{} {
			s, err := c.Serialize(value)
			if err != nil {
				m.CoercionFailed(metrics.DirectionSerialize)
				logger.Warn("datetime_serialize_failed", "error", err)
				panic(err)
			}
			return s
		},
		ParseValue: func(value interface{}) interface{} {
			ms, err := c.ParseValue(value)
			if err != nil {
				m.CoercionFailed(metrics.DirectionParseValue)
				logger.Debug("datetime_parse_value_failed", "error", err)
				return nil
			}
			return ms
		},
		ParseLiteral: func(valueAST ast.Value) interface{} {
			ms, err := c.ParseLiteral(valueAST)
			if err != nil {
				m.CoercionFailed(metrics.DirectionParseLiteral)
				logger.Debug("datetime_parse_literal_failed", "error", err)
				return nil
			}
			return ms
		},
	})
}
