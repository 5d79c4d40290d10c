package utils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/scopteam/scopbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func SeedAgentUser(ctx context.Context, profilesCol *mongo.Collection) error {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("AGENT_EMAIL")))
	pass := os.Getenv("AGENT_PASSWORD")

	if email == "" || pass == "" {
		return fmt.Errorf("missing AGENT_EMAIL or AGENT_PASSWORD env vars")
	}

	hash, err := HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash agent password: %w", err)
	}

	now := time.Now().UTC()

	// Only insert if it doesn't exist
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"email":        email,
			"passwordHash": hash,
			"role":         models.RoleAgent,
			"isActive":     true,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := profilesCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed agent upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		fmt.Println("Agent user seeded:", email)
	} else {
		fmt.Println("Agent user already exists:", email)
	}

	return nil
}
