package processors

import (
	"github.com/username/zeitan/backend/src/models"
)

// CostBasisProcessor folds a validated batch under one accounting method.
type CostBasisProcessor interface {
	Method() models.CalculationMethod
	Process(transactions []models.CanonicalTransaction) EngineRun
}

var costBasisProcessors = map[models.CalculationMethod]CostBasisProcessor{
	models.MethodMovingAverage: NewMovingAverageProcessor(),
	models.MethodTotalAverage:  NewTotalAverageProcessor(),
}
