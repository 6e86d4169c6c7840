package bootstrap

import (
	"context"
	"log"

	"agentic-rag-be/internal/config"
	"agentic-rag-be/internal/controller"
	"agentic-rag-be/internal/pkg/logger"
	"agentic-rag-be/internal/repository/unitofwork"
	"agentic-rag-be/internal/service"
	"agentic-rag-be/pkg/embedding"
	"agentic-rag-be/pkg/embedding/jina"
	"agentic-rag-be/pkg/llm/factory"
	"agentic-rag-be/pkg/memory"
	"agentic-rag-be/pkg/websearch/tavily"

	pktNats "agentic-rag-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	ConversationController controller.IConversationController
	DocumentController     controller.IDocumentController

	// Background workers, exposed for main.go to run
	ConsumerService service.IConsumerService

	SysLogger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Pipeline decisions get their own log file so routing and grading can be
	// audited without digging through the app log.
	pipelineLogger := log.New(logger.NewLogWriter(cfg.App.PipelineLogPath), "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	webProvider := tavily.NewTavilyProvider(cfg.Keys.Tavily)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Keys.EmbedChunkTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedChunkTopic,
		uowFactory,
		embeddingProvider,
	)

	memoryManager := memory.NewManager(uowFactory, llmProvider, pipelineLogger)
	retrievalService := service.NewRetrievalService(uowFactory, embeddingProvider)

	chatService := service.NewChatService(
		uowFactory,
		memoryManager,
		retrievalService,
		llmProvider,
		webProvider,
		natsPub,
		pipelineLogger,
	)
	conversationService := service.NewConversationService(uowFactory, natsPub)

	documentService, err := service.NewDocumentService(
		context.Background(),
		uowFactory,
		publisherService,
		natsPub,
		cfg.Ai.EmbeddingModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Document Service: %v", err)
	}

	// 5. Controllers
	return &Container{
		ChatController:         controller.NewChatController(chatService),
		ConversationController: controller.NewConversationController(conversationService),
		DocumentController:     controller.NewDocumentController(documentService),

		ConsumerService: consumerService,
		SysLogger:       sysLogger,
	}
}
