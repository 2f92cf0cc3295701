package bot

import "study-planner/internal/service"

type conversationStage int

const (
	stageNone conversationStage = iota
	stageLoginEmail
	stageLoginPassword
	stageSignupEmail
	stageSignupPassword
	stageTitle
	stageCategory
	stageRecurring
	stageDueDate
	stageWeekdays
	stageStartDate
	stageEditTitle
	stageEditCategory
)

type conversation struct {
	stage  conversationStage
	email  string
	input  service.TaskInput
	taskID string
	title  string
}
