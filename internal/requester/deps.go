package requester

import "greencommute/internal/schema"

type commuteForm interface {
	Query() schema.CommuteQuery
	Complete(result schema.EstimateResult)
}
