package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	assessmentinadapter "rehab/internal/modules/assessment/adapter/in"
	assessmentoutadapter "rehab/internal/modules/assessment/adapter/out"
	assessmentservice "rehab/internal/modules/assessment/service"
	assessmentusecase "rehab/internal/modules/assessment/usecase"
	authinadapter "rehab/internal/modules/auth/adapter/in"
	authoutadapter "rehab/internal/modules/auth/adapter/out"
	authdto "rehab/internal/modules/auth/dto"
	authservice "rehab/internal/modules/auth/service"
	authusecase "rehab/internal/modules/auth/usecase"
	chatinadapter "rehab/internal/modules/chat/adapter/in"
	chatoutadapter "rehab/internal/modules/chat/adapter/out"
	chatservice "rehab/internal/modules/chat/service"
	chatusecase "rehab/internal/modules/chat/usecase"
	historyinadapter "rehab/internal/modules/history/adapter/in"
	historyoutadapter "rehab/internal/modules/history/adapter/out"
	historyservice "rehab/internal/modules/history/service"
	historyusecase "rehab/internal/modules/history/usecase"
	reportinadapter "rehab/internal/modules/report/adapter/in"
	reportoutadapter "rehab/internal/modules/report/adapter/out"
	reportservice "rehab/internal/modules/report/service"
	reportusecase "rehab/internal/modules/report/usecase"
	"rehab/internal/platform/config"
	"rehab/internal/platform/httpapi"
	"rehab/internal/platform/i18n"
	"rehab/internal/platform/kv"
	"rehab/internal/platform/logging"
	uiapp "rehab/internal/ui/app"
)

// LanguageKey is the kv key holding the chosen language.
const LanguageKey = "language"

type App struct {
	AuthCLI       authinadapter.CLIHandler
	AssessmentCLI assessmentinadapter.CLIHandler
	HistoryCLI    historyinadapter.CLIHandler
	ChatCLI       chatinadapter.CLIHandler
	ReportCLI     reportinadapter.CLIHandler

	Translator *i18n.Persistent
	Logger     hclog.Logger

	cfg   config.Config
	cache *historyoutadapter.SQLiteCache
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	store := kv.NewFileStore(cfg.StatePath)

	tr, err := i18n.New()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	if err := tr.Restore(store, LanguageKey); err != nil {
		logger.Warn("could not restore language", "error", err)
	}
	lang := tr.Persist(store, LanguageKey)

	client := httpapi.New(cfg.BaseURL,
		httpapi.WithTimeout(cfg.RequestTimeout),
		httpapi.WithLogger(logger.Named("http")),
	)

	gateway := authoutadapter.NewHTTPGateway(client)
	session := authservice.NewSessionService(authoutadapter.NewKVTokenStore(store), gateway, logger.Named("auth"))
	client.Bind(session, session)
	authUC := authusecase.NewInteractor(session, gateway)

	assessmentUC := assessmentusecase.NewInteractor(assessmentservice.Deps{
		Scorer:   assessmentoutadapter.NewHTTPScorer(client),
		Recorder: assessmentoutadapter.NewHTTPRecorder(client),
		Session:  session,
		Language: lang,
		Board:    assessmentoutadapter.NewSlotBoard(),
		Logger:   logger.Named("assessment"),
	})

	cache, err := historyoutadapter.NewSQLiteCache(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open history cache: %w", err)
	}
	history := historyservice.NewHistoryService(
		historyoutadapter.NewHTTPRemote(client),
		cache,
		session,
		logger.Named("history"),
	)
	historyUC := historyusecase.NewInteractor(history, historyservice.NewTrendService(
		historyoutadapter.NewHTTPTrends(client),
		history,
		logger.Named("trend"),
	))

	chatUC := chatusecase.NewInteractor(chatservice.NewChatService(
		chatoutadapter.NewHTTPAssistant(client),
		chatoutadapter.NewAssessmentContext(assessmentUC),
		lang,
		logger.Named("chat"),
	))

	reports := reportoutadapter.NewHTTPReports(client)
	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(
		reports,
		reports,
		reportoutadapter.NewPDFInspector(),
		reportoutadapter.NewAssessmentCurrent(assessmentUC),
		lang,
		logger.Named("report"),
	))

	return &App{
		AuthCLI:       authinadapter.NewCLIHandler(authUC),
		AssessmentCLI: assessmentinadapter.NewCLIHandler(assessmentUC),
		HistoryCLI:    historyinadapter.NewCLIHandler(historyUC),
		ChatCLI:       chatinadapter.NewCLIHandler(chatUC),
		ReportCLI:     reportinadapter.NewCLIHandler(reportUC),
		Translator:    lang,
		Logger:        logger,
		cfg:           cfg,
		cache:         cache,
	}, nil
}

// Restore loads the persisted token and checks it against the backend. A
// failed check is logged; the session store already reflects the outcome.
func (a *App) Restore(ctx context.Context) authdto.SessionOutput {
	st, err := a.AuthCLI.Restore(ctx)
	if err != nil {
		a.Logger.Warn("session restore", "error", err)
	}
	return st
}

// LoginWithGoogle runs the device authorization flow and exchanges the
// resulting ID token for a backend session.
func (a *App) LoginWithGoogle(ctx context.Context, prompt authoutadapter.PromptFunc) (authdto.SessionOutput, error) {
	flow := authoutadapter.NewGoogleDeviceFlow(a.cfg.GoogleClientID, a.cfg.GoogleClientSecret, prompt)
	idToken, err := flow.IDToken(ctx)
	if err != nil {
		return authdto.SessionOutput{}, fmt.Errorf("google sign-in: %w", err)
	}
	return a.AuthCLI.LoginWithGoogle(ctx, idToken)
}

func (a *App) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(uiapp.Ports{
		Auth:       app.AuthCLI,
		Assessment: app.AssessmentCLI,
		History:    app.HistoryCLI,
		Chat:       app.ChatCLI,
		Report:     app.ReportCLI,
	}, app.Translator)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.Restore(ctx)

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if m, ok := final.(uiapp.Model); ok {
		m.Close()
	}
	return err
}
