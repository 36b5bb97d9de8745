package models

import "time"

// Exercise is a logged activity owned by a user. Rows are never updated.
// Date is nil when the store assigned its default.
type Exercise struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Description string     `json:"description"`
	Duration    int        `json:"duration,string"`
	Date        *time.Time `json:"date,omitempty"`
}

// ExerciseView is an exercise joined with its owner's username.
type ExerciseView struct {
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration,string"`
	Date        string `json:"date"`
}

// ExerciseCreateRequest is the body of POST .../exercises.
type ExerciseCreateRequest struct {
	Description FlexString `json:"description"`
	Duration    FlexString `json:"duration"`
	Date        FlexString `json:"date"`
}

// ExerciseListResponse wraps query results.
type ExerciseListResponse struct {
	Exercises []ExerciseView `json:"exercises"`
}
