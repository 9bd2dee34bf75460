// Package main API 服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genai-bot-api/internal/application/chat"
	"genai-bot-api/internal/application/conversation"
	"genai-bot-api/internal/application/retrieval"
	"genai-bot-api/internal/config"
	"genai-bot-api/internal/infrastructure/docstore"
	"genai-bot-api/internal/infrastructure/embedding"
	"genai-bot-api/internal/infrastructure/llm"
	"genai-bot-api/internal/infrastructure/persistence/sqlite"
	"genai-bot-api/internal/interfaces/http/handler"
	"genai-bot-api/internal/interfaces/http/router"
	"genai-bot-api/pkg/logger"

	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting server",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化文档存储
	docs, err := docstore.NewStore(cfg.Storage.DocumentsDir)
	if err != nil {
		logger.Fatal(ctx, "failed to init document store", err)
	}

	// 初始化向量索引
	indexClient, err := sqlite.NewClient(cfg.Storage.IndexPath)
	if err != nil {
		logger.Fatal(ctx, "failed to init vector index", err)
	}
	defer func() {
		if err := indexClient.Close(); err != nil {
			log.Error("failed to close vector index", "error", err)
		}
	}()
	segmentRepo := sqlite.NewSegmentRepository(indexClient)

	// 初始化 Embedding 客户端与 LLM 工厂
	embedder := embedding.NewClient(&cfg.Embedding)
	models := llm.NewFactory(cfg)

	// 组装应用服务
	indexer := retrieval.NewIndexer(
		embedder,
		segmentRepo,
		cfg.Retrieval.ChunkSizeRunes,
		cfg.Retrieval.ChunkOverlapRunes,
	)
	engine := retrieval.NewEngine(embedder, segmentRepo, cfg.Retrieval.TopK)
	memory := conversation.NewMemory()

	providerName := cfg.LLM.DefaultProvider
	modelName := ""
	if p, ok := cfg.LLM.Providers[providerName]; ok {
		modelName = p.Model
	}
	orchestrator := chat.NewOrchestrator(engine, memory, models, providerName, modelName)

	// 启动时回填索引：documents 目录有文档但索引为空时重建
	bootstrapIndex(ctx, docs, segmentRepo, indexer)

	// 组装 HTTP 层
	handlers := router.Handlers{
		Chat:         handler.NewChatHandler(orchestrator),
		Documents:    handler.NewDocumentHandler(docs, indexer),
		Conversation: handler.NewConversationHandler(memory),
		Health:       handler.NewHealthHandler(indexClient, docs),
	}
	r := router.New(cfg, handlers)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}

// bootstrapIndex 在索引为空时用 documents 目录的存量文档重建索引。
// 回填失败不阻塞启动，之后仍可通过 /upload 重新入库。
func bootstrapIndex(ctx context.Context, docs *docstore.Store, repo *sqlite.SegmentRepository, indexer *retrieval.Indexer) {
	log := logger.FromContext(ctx)

	count, err := repo.Count(ctx)
	if err != nil {
		log.Warn("bootstrap: failed to count indexed segments", "error", err)
		return
	}
	if count > 0 {
		return
	}

	stored, err := docs.LoadAll()
	if err != nil {
		log.Warn("bootstrap: failed to load stored documents", "error", err)
		return
	}
	if len(stored) == 0 {
		return
	}

	chunks, err := indexer.Ingest(ctx, stored)
	if err != nil {
		log.Warn("bootstrap: failed to rebuild index", "error", err, "documents", len(stored))
		return
	}
	log.Info("bootstrap: rebuilt vector index", "documents", len(stored), "chunks", chunks)
}
