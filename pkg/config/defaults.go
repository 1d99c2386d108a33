package config

const (
	defaultAPIURL     = "https://api.getzep.com"
	defaultGeneration = "thread"

	defaultNodesCollection    = "nodes"
	defaultEdgesCollection    = "edges"
	defaultEpisodesCollection = "episodes"

	defaultGroupID = "default"

	defaultListen = ":8082"

	defaultStoreProvider = "zep"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "embeddinggemma"
	defaultEmbeddingDimensions = 768

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "graphzep.memory"

	defaultAppendWorkers   = 3
	defaultAppendQueueSize = 256
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Zep: ZepConfig{
			APIURL:     defaultAPIURL,
			Generation: defaultGeneration,
		},
		Collections: CollectionsConfig{
			Nodes:    defaultNodesCollection,
			Edges:    defaultEdgesCollection,
			Episodes: defaultEpisodesCollection,
		},
		Group: GroupConfig{
			DefaultID: defaultGroupID,
		},
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Store: StoreConfig{
			Provider: defaultStoreProvider,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
		Append: AppendConfig{
			Workers:   defaultAppendWorkers,
			QueueSize: defaultAppendQueueSize,
		},
	}
}
