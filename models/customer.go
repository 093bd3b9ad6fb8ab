package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/quotes_backend/config"
	"bitbucket.org/mmdatafocus/quotes_backend/utils"
	"gorm.io/gorm"
)

type Customer struct {
	ID         int         `gorm:"primary_key" json:"id"`
	BusinessId string      `gorm:"index;not null" json:"business_id" binding:"required"`
	Name       string      `gorm:"size:100;not null" json:"name" binding:"required"`
	Email      string      `gorm:"size:100" json:"email"`
	Phone      string      `gorm:"size:20" json:"phone"`
	Mobile     string      `gorm:"size:20" json:"mobile"`
	Address    string      `gorm:"type:text" json:"address"`
	City       string      `gorm:"size:100" json:"city"`
	State      string      `gorm:"size:100" json:"state"`
	ZipCode    string      `gorm:"size:20" json:"zip_code"`
	Notes      string      `gorm:"type:text" json:"notes"`
	Source     QuoteSource `gorm:"type:enum('widget','dashboard');not null;default:'dashboard'" json:"source"`
	IsActive   *bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Mobile      string `json:"mobile"`
	CountryCode string `json:"country_code"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Notes       string `json:"notes"`
}

type CustomersEdge Edge[Customer]
type CustomersConnection struct {
	Edges    []*CustomersEdge `json:"edges"`
	PageInfo *PageInfo        `json:"pageInfo"`
}

// returns decoded curosr string
func (c Customer) GetCursor() string {
	return c.CreatedAt.String()
}

func (input *NewCustomer) validate(ctx context.Context, businessId string, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Customer](ctx, businessId, id); err != nil {
			return err
		}
	}
	// validate unique name
	if err := utils.ValidateUnique[Customer](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	// validate email
	if input.Email != "" && len(input.Email) > 0 {
		if !utils.IsValidEmail(input.Email) {
			return errors.New("invalid email")
		}
		if err := utils.ValidateUnique[Customer](ctx, businessId, "email", input.Email, id); err != nil {
			return err
		}
	}
	// validate phone, normalized so lookups by phone always match
	if input.Phone != "" && len(input.Phone) > 0 {
		countryCode := input.CountryCode
		if countryCode == "" {
			countryCode = utils.CountryCode
		}
		formatted, err := utils.FormatPhoneNumber(input.Phone, countryCode)
		if err != nil {
			return errors.New("invalid phone number")
		}
		input.Phone = formatted
		if err := utils.ValidateUnique[Customer](ctx, businessId, "phone", input.Phone, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	source := QuoteSourceDashboard
	if s, ok := utils.GetQuoteSourceFromContext(ctx); ok && s == string(QuoteSourceWidget) {
		source = QuoteSourceWidget
	}

	customer := Customer{
		BusinessId: businessId,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Mobile:     input.Mobile,
		Address:    input.Address,
		City:       input.City,
		State:      input.State,
		ZipCode:    input.ZipCode,
		Notes:      input.Notes,
		Source:     source,
		IsActive:   utils.NewTrue(),
	}

	tx := db.Begin()
	err := tx.WithContext(ctx).Create(&customer).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err = tx.Commit().Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	customer, err := utils.FetchModel[Customer](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&customer).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Email":   input.Email,
		"Phone":   input.Phone,
		"Mobile":  input.Mobile,
		"Address": input.Address,
		"City":    input.City,
		"State":   input.State,
		"ZipCode": input.ZipCode,
		"Notes":   input.Notes,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func DeleteCustomer(ctx context.Context, id int) (*Customer, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	result, err := utils.FetchModel[Customer](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Quote](ctx, businessId, "customer_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("quote associated with customer exists")
	}

	count, err = utils.ResourceCountWhere[Task](ctx, businessId, "customer_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("task associated with customer exists")
	}

	db := config.GetDB()
	tx := db.Begin()
	err = tx.WithContext(ctx).Delete(&result).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

func ToggleActiveCustomer(ctx context.Context, id int, isActive bool) (*Customer, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return ToggleActiveModel[Customer](ctx, businessId, id, isActive)
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return utils.FetchModel[Customer](ctx, businessId, id)
}

func GetCustomers(ctx context.Context, name *string) ([]*Customer, error) {
	db := config.GetDB()

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var results []*Customer
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	err := dbCtx.
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return results, nil
}

func PaginateCustomer(ctx context.Context, limit *int, after *string,
	name *string, phone *string, email *string, source *QuoteSource, isActive *bool) (*CustomersConnection, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && *name != "" {
		dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if phone != nil && *phone != "" {
		dbCtx.Where("phone LIKE ?", "%"+*phone+"%")
	}
	if email != nil && *email != "" {
		dbCtx.Where("email LIKE ?", "%"+*email+"%")
	}
	if source != nil && *source != "" {
		dbCtx.Where("source = ?", source)
	}
	if isActive != nil {
		dbCtx.Where("is_active = ?", isActive)
	}

	edges, pageInfo, err := FetchPageCompositeCursor[Customer](dbCtx, *limit, after, "created_at", "<")
	if err != nil {
		return nil, err
	}

	var customersConnection CustomersConnection
	customersConnection.PageInfo = pageInfo
	for _, edge := range edges {
		customerEdge := CustomersEdge(edge)
		customersConnection.Edges = append(customersConnection.Edges, &customerEdge)
	}

	return &customersConnection, err
}

// GetOrCreateWidgetCustomer matches an existing customer by email before
// creating one, so repeat widget submissions reuse the same record.
func GetOrCreateWidgetCustomer(ctx context.Context, tx *gorm.DB, businessId string, input *NewCustomer) (*Customer, error) {
	if input.Email == "" {
		return nil, errors.New("customer email is required")
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email")
	}

	var existing Customer
	err := tx.WithContext(ctx).
		Where("business_id = ? AND email = ?", businessId, input.Email).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if input.Phone != "" {
		countryCode := input.CountryCode
		if countryCode == "" {
			countryCode = utils.CountryCode
		}
		if formatted, err := utils.FormatPhoneNumber(input.Phone, countryCode); err == nil {
			input.Phone = formatted
		}
	}

	name := input.Name
	if name == "" {
		name = input.Email
	}

	customer := Customer{
		BusinessId: businessId,
		Name:       name,
		Email:      input.Email,
		Phone:      input.Phone,
		Mobile:     input.Mobile,
		Address:    input.Address,
		City:       input.City,
		State:      input.State,
		ZipCode:    input.ZipCode,
		Notes:      input.Notes,
		Source:     QuoteSourceWidget,
		IsActive:   utils.NewTrue(),
	}
	if err := tx.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
