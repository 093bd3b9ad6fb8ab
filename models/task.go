package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"gorm.io/gorm"
)

// Task is a jobsite visit or follow-up on the contractor's board. Most tasks
// are created automatically off quote lifecycle events; the rest are entered
// from the dashboard.
type Task struct {
	ID         int    `gorm:"primary_key" json:"id"`
	BusinessId string `gorm:"index;not null" json:"business_id" binding:"required"`
	CustomerId int    `gorm:"index;not null" json:"customer_id"`
	// QuoteId 0 means a standalone task not tied to a quote
	QuoteId          int        `gorm:"index;default:0" json:"quote_id"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	AssignedTo       string     `gorm:"size:100" json:"assigned_to"`
	ScheduledDate    *time.Time `json:"scheduled_date"`
	CurrentStatus    TaskStatus `gorm:"type:enum('Pending','Scheduled','Completed','Cancelled');not null;default:'Pending'" json:"current_status"`
	MeasurementNotes string     `gorm:"type:text" json:"measurement_notes"`
	CompletedAt      *time.Time `json:"completed_at"`
	Images           []*Image   `gorm:"polymorphic:Reference" json:"images"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTask struct {
	CustomerId       int         `json:"customer_id" binding:"required"`
	QuoteId          int         `json:"quote_id"`
	Title            string      `json:"title" binding:"required"`
	Description      string      `json:"description"`
	AssignedTo       string      `json:"assigned_to"`
	ScheduledDate    *time.Time  `json:"scheduled_date"`
	MeasurementNotes string      `json:"measurement_notes"`
	Images           []*NewImage `json:"images"`
}

type TasksEdge Edge[Task]
type TasksConnection struct {
	Edges    []*TasksEdge `json:"edges"`
	PageInfo *PageInfo    `json:"pageInfo"`
}

func (t Task) GetCursor() string {
	return t.CreatedAt.String()
}

func (t Task) GetId() int {
	return t.ID
}

func (input *NewTask) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Task](ctx, businessId, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Customer](ctx, businessId, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	if input.QuoteId > 0 {
		if err := utils.ValidateResourceId[Quote](ctx, businessId, input.QuoteId); err != nil {
			return errors.New("quote not found")
		}
	}
	return nil
}

func CreateTask(ctx context.Context, input *NewTask) (*Task, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	images, err := mapNewImages(input.Images, "tasks", 0)
	if err != nil {
		return nil, err
	}

	status := TaskStatusPending
	if input.ScheduledDate != nil {
		status = TaskStatusScheduled
	}

	task := Task{
		BusinessId:       businessId,
		CustomerId:       input.CustomerId,
		QuoteId:          input.QuoteId,
		Title:            input.Title,
		Description:      input.Description,
		AssignedTo:       input.AssignedTo,
		ScheduledDate:    input.ScheduledDate,
		CurrentStatus:    status,
		MeasurementNotes: input.MeasurementNotes,
		Images:           images,
	}

	tx := db.Begin()

	// db action
	if err := tx.WithContext(ctx).Create(&task).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func UpdateTask(ctx context.Context, taskId int, input *NewTask) (*Task, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, taskId); err != nil {
		return nil, err
	}

	task, err := utils.FetchModel[Task](ctx, businessId, taskId, "Images")
	if err != nil {
		return nil, err
	}
	if task.CurrentStatus == TaskStatusCompleted || task.CurrentStatus == TaskStatusCancelled {
		return nil, fmt.Errorf("cannot edit a %s task", task.CurrentStatus)
	}

	task.CustomerId = input.CustomerId
	task.QuoteId = input.QuoteId
	task.Title = input.Title
	task.Description = input.Description
	task.AssignedTo = input.AssignedTo
	task.ScheduledDate = input.ScheduledDate
	task.MeasurementNotes = input.MeasurementNotes
	if input.ScheduledDate != nil && task.CurrentStatus == TaskStatusPending {
		task.CurrentStatus = TaskStatusScheduled
	}

	tx := db.Begin()

	// db action
	if err := tx.WithContext(ctx).Omit("Images").Save(task).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	images, err := UpsertImages(ctx, tx, input.Images, "tasks", taskId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	task.Images = images

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return task, nil
}

func DeleteTask(ctx context.Context, taskId int) (*Task, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	task, err := utils.FetchModel[Task](ctx, businessId, taskId, "Images")
	if err != nil {
		return nil, err
	}

	tx := db.Begin()

	// db action
	if err := tx.WithContext(ctx).Delete(task).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := deleteImages(ctx, tx, task.Images); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return task, nil
}

// Completed and Cancelled are terminal; Pending and Scheduled move freely
// between each other.
var allowedTaskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:   {TaskStatusScheduled, TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusScheduled: {TaskStatusPending, TaskStatusCompleted, TaskStatusCancelled},
}

func UpdateTaskStatus(ctx context.Context, taskId int, status TaskStatus) (*Task, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	task, err := utils.FetchModel[Task](ctx, businessId, taskId)
	if err != nil {
		return nil, err
	}

	oldStatus := task.CurrentStatus
	if oldStatus == status {
		return task, nil
	}
	allowed := false
	for _, next := range allowedTaskTransitions[oldStatus] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot change task status from %s to %s", oldStatus, status)
	}

	updates := map[string]interface{}{
		"CurrentStatus": status,
	}
	if status == TaskStatusCompleted {
		now := time.Now().UTC()
		updates["CompletedAt"] = &now
	}

	tx := db.Begin()

	// db action
	if err := tx.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return task, nil
}

// CreateFollowUpTask writes a task inside the caller's transaction. The
// quote event consumers use it to put submitted/accepted quotes on the
// contractor's board.
func CreateFollowUpTask(tx *gorm.DB, ctx context.Context, quote *Quote, title string, description string) (*Task, error) {
	task := Task{
		BusinessId:    quote.BusinessId,
		CustomerId:    quote.CustomerId,
		QuoteId:       quote.ID,
		Title:         title,
		Description:   description,
		CurrentStatus: TaskStatusPending,
	}
	if err := tx.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func GetTask(ctx context.Context, id int) (*Task, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return utils.FetchModel[Task](ctx, businessId, id, "Images")
}

func GetTasks(ctx context.Context, customerId *int, quoteId *int, status *TaskStatus) ([]*Task, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var results []*Task
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if customerId != nil && *customerId > 0 {
		dbCtx = dbCtx.Where("customer_id = ?", *customerId)
	}
	if quoteId != nil && *quoteId > 0 {
		dbCtx = dbCtx.Where("quote_id = ?", *quoteId)
	}
	if status != nil {
		dbCtx = dbCtx.Where("current_status = ?", *status)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func PaginateTask(ctx context.Context, limit *int, after *string,
	customerId *int,
	quoteId *int,
	status *TaskStatus,
	assignedTo *string,
	startScheduledDate *MyDateString,
	endScheduledDate *MyDateString) (*TasksConnection, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	business, err := GetBusiness(ctx)
	if err != nil {
		return nil, errors.New("business id is required")
	}
	if err := startScheduledDate.StartOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}
	if err := endScheduledDate.EndOfDayUTCTime(business.Timezone); err != nil {
		return nil, err
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)

	if customerId != nil && *customerId > 0 {
		dbCtx.Where("customer_id = ?", *customerId)
	}
	if quoteId != nil && *quoteId > 0 {
		dbCtx.Where("quote_id = ?", *quoteId)
	}
	if status != nil {
		dbCtx.Where("current_status = ?", *status)
	}
	if assignedTo != nil && *assignedTo != "" {
		dbCtx.Where("assigned_to LIKE ?", "%"+*assignedTo+"%")
	}
	if startScheduledDate != nil && endScheduledDate != nil {
		dbCtx.Where("scheduled_date BETWEEN ? AND ?", startScheduledDate, endScheduledDate)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Task](dbCtx, *limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var tasksConnection TasksConnection
	tasksConnection.PageInfo = pageInfo
	for _, edge := range edges {
		tasksEdge := TasksEdge(edge)
		tasksConnection.Edges = append(tasksConnection.Edges, &tasksEdge)
	}

	return &tasksConnection, err
}
