package postgres

import (
	"gorm.io/gorm"

	"github.com/mailagent/server/internal/ports"
)

type Repositories struct {
	Users        ports.UserRepository
	EnvVars      ports.EnvVarRepository
	EmailConfigs ports.EmailConfigRepository
	Chats        ports.ChatMessageRepository
	Emails       ports.EmailMessageRepository
	Activity     ports.ActivityRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:        &userRepository{db: db},
		EnvVars:      &envVarRepository{db: db},
		EmailConfigs: &emailConfigRepository{db: db},
		Chats:        &chatMessageRepository{db: db},
		Emails:       &emailMessageRepository{db: db},
		Activity:     &activityRepository{db: db},
	}
}
