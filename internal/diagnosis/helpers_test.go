package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/logger"
	"telehealth-app-server/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seededTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	if err := models.SeedCatalog(db); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return db
}

func testGateConfig() config.DiagnosisConfig {
	return config.DiagnosisConfig{
		HighThreshold:    0.7,
		MinThreshold:     0.4,
		EmergencyNumbers: []string{"911"},
	}
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := models.User{
		Email:     fmt.Sprintf("%s-%s@example.com", role, t.Name()),
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
	}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	return &user
}

func symptomIDsByName(t *testing.T, db *gorm.DB, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		var symptom models.Symptom
		if err := db.First(&symptom, "name = ?", name).Error; err != nil {
			t.Fatalf("symptom %q: %v", name, err)
		}
		ids = append(ids, symptom.ID)
	}
	return ids
}

func auditCount(t *testing.T, db *gorm.DB, diagnosisID, action string) int64 {
	t.Helper()
	var count int64
	err := db.Model(&models.AuditLogEntry{}).
		Where("diagnosis_id = ? AND action = ?", diagnosisID, action).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count audit entries: %v", err)
	}
	return count
}

// recordingNotifier captures notifications synchronously for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []string
	users []string
}

func (n *recordingNotifier) Notify(userID, kind, title, message string, payload map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	n.users = append(n.users, userID)
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.kinds...)
}

func newTestReview(db *gorm.DB) (*ReviewService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewReviewService(db, NewUserRoles(db), notifier, logger.NewNop()), notifier
}

var testCtx = context.Background()

func errorsAs(err error, target interface{}) bool {
	return errors.As(err, target)
}
