package api

import (
	"github.com/readingdaily/readings-server/app/database"
	"github.com/readingdaily/readings-server/app/source"
	"github.com/readingdaily/readings-server/app/tasks"
)

type Handler struct {
	readingRepo database.ReadingRepository
	configCache *source.ConfigCache
	scheduler   tasks.TaskSchedulerInterface
	version     string
}
