package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"

	"github.com/camden-git/campaidbackend/models"
	"github.com/camden-git/campaidbackend/permissions"
	"github.com/camden-git/campaidbackend/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSetupCompleted is returned once any user exists.
var ErrSetupCompleted = errors.New("setup already completed")

type SetupHandler struct {
	DB *gorm.DB
}

func NewSetupHandler(db *gorm.DB) *SetupHandler {
	return &SetupHandler{DB: db}
}

type FirstAdminPayload struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

// SyncAdminRole ensures the Administrator role exists and holds every defined
// permission. It is idempotent and runs on every startup.
func SyncAdminRole(roleRepo repository.RoleRepository) error {
	allPerms := permissions.GetAllPermissionKeys()
	sort.Strings(allPerms)

	role, err := roleRepo.GetByName(models.AdminRoleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			newRole := &models.Role{Name: models.AdminRoleName, GlobalPermissions: allPerms}
			if err := roleRepo.Create(newRole); err != nil {
				return fmt.Errorf("failed to create '%s' role: %w", models.AdminRoleName, err)
			}
			zap.L().Info("admin role created", zap.String("role", models.AdminRoleName), zap.Int("permissions", len(allPerms)))
			return nil
		}
		return fmt.Errorf("failed to query for '%s' role: %w", models.AdminRoleName, err)
	}

	current := append([]string(nil), role.GlobalPermissions...)
	sort.Strings(current)
	if reflect.DeepEqual(current, allPerms) {
		zap.L().Debug("admin role is up to date", zap.String("role", models.AdminRoleName))
		return nil
	}

	role.GlobalPermissions = allPerms
	if err := roleRepo.Update(role); err != nil {
		return fmt.Errorf("failed to update '%s' role permissions: %w", models.AdminRoleName, err)
	}
	zap.L().Info("admin role permissions updated", zap.String("role", models.AdminRoleName), zap.Int("permissions", len(allPerms)))
	return nil
}

// CreateFirstAdmin creates the initial administrator with the Administrator
// role, but only while the user table is empty.
func CreateFirstAdmin(db *gorm.DB, username, password string) (*models.User, error) {
	adminUser := &models.User{Username: username}
	if err := adminUser.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		users := repository.NewGormUserRepository(tx)
		count, err := users.Count()
		if err != nil {
			return fmt.Errorf("failed to count existing users: %w", err)
		}
		if count > 0 {
			return ErrSetupCompleted
		}

		adminRole, err := repository.NewGormRoleRepository(tx).GetByName(models.AdminRoleName)
		if err != nil {
			return fmt.Errorf("could not find the '%s' role: %w", models.AdminRoleName, err)
		}

		if err := users.Create(adminUser); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		if err := users.AddRoleToUser(adminUser.ID, adminRole.ID); err != nil {
			return fmt.Errorf("failed to assign admin role to user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("initial admin user created", zap.String("username", adminUser.Username))
	return adminUser, nil
}

func (h *SetupHandler) CreateFirstAdmin(w http.ResponseWriter, r *http.Request) {
	var payload FirstAdminPayload
	if _, err := decodeBody(w, r, &payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if msgs := validationMessages(payload); msgs != nil {
		WriteAPIErrors(w, http.StatusBadRequest, CodeValidation, msgs)
		return
	}

	user, err := CreateFirstAdmin(h.DB, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, ErrSetupCompleted) {
			WriteAPIError(w, http.StatusForbidden, CodeForbidden, "Setup has already been completed.")
			return
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}
