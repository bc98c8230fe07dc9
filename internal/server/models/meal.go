package models

type Meal struct {
	ID       int64  `json:"id"`
	Owner    int64  `json:"owner"`
	Name     string `json:"name"`
	Kcal     int32  `json:"kcal"`
	Carbs    int32  `json:"carbs"`
	Proteins int32  `json:"proteins"`
	Lipids   int32  `json:"lipids"`
}

type MealForCreate struct {
	Name     string `json:"name"`
	Kcal     int32  `json:"kcal"`
	Carbs    int32  `json:"carbs"`
	Proteins int32  `json:"proteins"`
	Lipids   int32  `json:"lipids"`
}

// MealForUpdate is a partial update; nil fields keep their value.
type MealForUpdate struct {
	Name     *string `json:"name"`
	Kcal     *int32  `json:"kcal"`
	Carbs    *int32  `json:"carbs"`
	Proteins *int32  `json:"proteins"`
	Lipids   *int32  `json:"lipids"`
}
