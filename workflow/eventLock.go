package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireBusinessEventLock serializes quote event processing per business
// across instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will run the processing transaction.
func AcquireBusinessEventLock(tx *gorm.DB, businessId string) error {
	lockName := fmt.Sprintf("quote-events:%s", businessId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire event lock for business_id=%s", businessId)
	}
	return nil
}

func ReleaseBusinessEventLock(tx *gorm.DB, businessId string) {
	lockName := fmt.Sprintf("quote-events:%s", businessId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
