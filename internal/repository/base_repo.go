package repository

import (
	"context"
	"fmt"

	"github.com/mbeoliero/kit/log"
	"github.com/mbeoliero/threadly/internal/config"
	"github.com/mbeoliero/threadly/internal/entity"
	"github.com/spf13/viper"
)

// Repositories holds all repositories
type Repositories struct {
	Conversation *ConversationRepo
}

// NewRepositories creates all repositories and loads the configured seed data
func NewRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	repos := &Repositories{
		Conversation: NewConversationRepo(),
	}

	if cfg.Seed.Path == "" {
		log.CtxInfo(ctx, "no seed file configured, starting with an empty store")
		return repos, nil
	}

	seeds, err := LoadSeedFile(cfg.Seed.Path)
	if err != nil {
		return nil, err
	}
	if err := repos.Conversation.Seed(seeds); err != nil {
		return nil, err
	}
	log.CtxInfo(ctx, "seed loaded: path=%s, conversations=%d", cfg.Seed.Path, len(seeds))

	return repos, nil
}

// SeedConversation is one conversation record supplied by the data-loading collaborator
type SeedConversation struct {
	entity.Conversation `mapstructure:",squash"`
	Messages            []entity.Message `mapstructure:"messages"`
}

// LoadSeedFile reads seed conversations from a YAML file
func LoadSeedFile(path string) ([]SeedConversation, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []SeedConversation
	if err := v.UnmarshalKey("conversations", &seeds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed: %w", err)
	}
	return seeds, nil
}

// Seed creates every seed conversation, deriving a missing preview from the last message
func (r *ConversationRepo) Seed(seeds []SeedConversation) error {
	for _, s := range seeds {
		conv := s.Conversation
		if conv.LastMessage == "" && len(s.Messages) > 0 {
			last := s.Messages[len(s.Messages)-1]
			conv.LastMessage = last.Body
			conv.LastMessageTime = last.TimeLabel
		}
		if err := r.Create(conv, s.Messages); err != nil {
			return fmt.Errorf("seed conversation %q: %w", conv.Id, err)
		}
	}
	return nil
}
