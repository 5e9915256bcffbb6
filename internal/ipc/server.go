package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"hunt/internal/daemon"
	"hunt/internal/logging"
	"hunt/internal/logs"
	"hunt/internal/stage"
	"hunt/internal/store"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Hunt", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually or rerun hunt stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func summarizeStatus(st *store.ApplicationStatus) ApplicationSummary {
	return ApplicationSummary{
		ID:        st.ID,
		Owner:     st.OwnerID,
		Company:   st.Company,
		Role:      st.Role,
		Season:    string(st.Season),
		Stage:     string(st.Stage),
		StageAt:   st.StageAt,
		CreatedAt: st.CreatedAt,
	}
}

func summarizeApplication(app *store.Application, entry *store.StageEntry) ApplicationSummary {
	summary := ApplicationSummary{
		ID:        app.ID,
		Owner:     app.OwnerID,
		Company:   app.Company,
		Role:      app.Role,
		Season:    string(app.Season),
		CreatedAt: app.CreatedAt,
	}
	if entry != nil {
		summary.Stage = string(entry.Stage)
		summary.StageAt = entry.OccurredAt
	}
	return summary
}

func summarizeEntry(entry *store.StageEntry) StageEntrySummary {
	return StageEntrySummary{
		ID:            entry.ID,
		ApplicationID: entry.ApplicationID,
		Stage:         string(entry.Stage),
		OccurredAt:    entry.OccurredAt,
	}
}

func summarizeReminder(rem *store.DueReminder) ReminderSummary {
	return ReminderSummary{
		ID:            rem.ID,
		ApplicationID: rem.ApplicationID,
		Owner:         rem.OwnerID,
		Company:       rem.Company,
		Role:          rem.Role,
		DueAt:         rem.DueAt,
		Sent:          rem.Sent,
		CreatedAt:     rem.CreatedAt,
	}
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.DBPath = status.DBPath
	resp.LockPath = status.LockFilePath
	resp.PID = status.PID
	resp.Dispatcher = DispatcherStatus{
		Running:    status.Dispatcher.Running,
		State:      string(status.Dispatcher.State),
		LastTick:   status.Dispatcher.LastTick,
		Dispatched: status.Dispatcher.Dispatched,
		Failed:     status.Dispatcher.Failed,
		LastError:  status.Dispatcher.LastError,
	}
	resp.ApplicationStats = make(map[string]int, len(status.ApplicationStats))
	for k, v := range status.ApplicationStats {
		resp.ApplicationStats[string(k)] = v
	}
	return nil
}

func (s *service) CreateApplication(req CreateApplicationRequest, resp *CreateApplicationResponse) error {
	season, ok := stage.ParseSeason(req.Season)
	if !ok {
		return fmt.Errorf("unknown season %q", req.Season)
	}
	app, err := s.daemon.CreateApplication(s.ctx, req.Owner, req.Company, req.Role, season)
	if err != nil {
		return err
	}
	entry, err := s.daemon.CurrentStage(s.ctx, app.ID)
	if err != nil {
		return err
	}
	resp.Application = summarizeApplication(app, entry)
	s.log().Info("application created via IPC",
		logging.String(logging.FieldEventType, "application_created"),
		logging.Int64(logging.FieldAppID, app.ID),
		logging.String("company", app.Company))
	return nil
}

func (s *service) GetApplication(req GetApplicationRequest, resp *GetApplicationResponse) error {
	var (
		app *store.Application
		err error
	)
	switch {
	case req.ID > 0:
		app, err = s.daemon.GetApplication(s.ctx, req.ID)
	case req.Company != "":
		app, err = s.daemon.FindApplicationByCompany(s.ctx, req.Owner, req.Company)
	default:
		return errors.New("get application requires an id or a company")
	}
	if err != nil {
		return err
	}
	entry, err := s.daemon.CurrentStage(s.ctx, app.ID)
	if err != nil {
		return err
	}
	resp.Application = summarizeApplication(app, entry)
	return nil
}

func (s *service) ListApplications(req ListApplicationsRequest, resp *ListApplicationsResponse) error {
	var filter store.ApplicationFilter
	if req.Stage != "" {
		parsed, ok := stage.Parse(req.Stage)
		if !ok {
			return fmt.Errorf("unknown stage %q", req.Stage)
		}
		filter.Stage = parsed
	}
	if req.Season != "" {
		parsed, ok := stage.ParseSeason(req.Season)
		if !ok {
			return fmt.Errorf("unknown season %q", req.Season)
		}
		filter.Season = parsed
	}
	filter.Limit = req.Limit
	filter.Offset = req.Offset

	statuses, total, err := s.daemon.ListApplications(s.ctx, req.Owner, filter)
	if err != nil {
		return err
	}
	resp.Applications = make([]ApplicationSummary, 0, len(statuses))
	for _, st := range statuses {
		if st == nil {
			continue
		}
		resp.Applications = append(resp.Applications, summarizeStatus(st))
	}
	resp.Total = total
	return nil
}

func (s *service) RemoveApplication(req RemoveApplicationRequest, resp *RemoveApplicationResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid application id %d", req.ID)
	}
	removed, err := s.daemon.RemoveApplication(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Removed = removed
	if removed {
		s.log().Info("application removed via IPC",
			logging.String(logging.FieldEventType, "application_removed"),
			logging.Int64(logging.FieldAppID, req.ID))
	}
	return nil
}

func (s *service) RecordStage(req RecordStageRequest, resp *RecordStageResponse) error {
	parsed, ok := stage.Parse(req.Stage)
	if !ok {
		return fmt.Errorf("unknown stage %q", req.Stage)
	}
	entry, err := s.daemon.RecordStage(s.ctx, req.ID, parsed, req.OccurredAt)
	if err != nil {
		return err
	}
	resp.Entry = summarizeEntry(entry)
	s.log().Info("stage recorded via IPC",
		logging.String(logging.FieldEventType, "stage_recorded"),
		logging.Int64(logging.FieldAppID, req.ID),
		logging.String(logging.FieldStage, string(parsed)))
	return nil
}

func (s *service) StageHistory(req StageHistoryRequest, resp *StageHistoryResponse) error {
	entries, err := s.daemon.StageHistory(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Entries = make([]StageEntrySummary, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		resp.Entries = append(resp.Entries, summarizeEntry(entry))
	}
	return nil
}

func (s *service) ScheduleReminder(req ScheduleReminderRequest, resp *ScheduleReminderResponse) error {
	rem, err := s.daemon.ScheduleReminder(s.ctx, req.ID, req.DueAt)
	if err != nil {
		return err
	}
	app, err := s.daemon.GetApplication(s.ctx, rem.ApplicationID)
	if err != nil {
		return err
	}
	resp.Reminder = ReminderSummary{
		ID:            rem.ID,
		ApplicationID: rem.ApplicationID,
		Owner:         app.OwnerID,
		Company:       app.Company,
		Role:          app.Role,
		DueAt:         rem.DueAt,
		Sent:          rem.Sent,
		CreatedAt:     rem.CreatedAt,
	}
	s.log().Info("reminder scheduled via IPC",
		logging.String(logging.FieldEventType, "reminder_scheduled"),
		logging.Int64(logging.FieldAppID, rem.ApplicationID),
		logging.Time("due_at", rem.DueAt))
	return nil
}

func (s *service) ListReminders(req ListRemindersRequest, resp *ListRemindersResponse) error {
	reminders, err := s.daemon.ListReminders(s.ctx, req.Owner, req.IncludeSent)
	if err != nil {
		return err
	}
	resp.Reminders = make([]ReminderSummary, 0, len(reminders))
	for _, rem := range reminders {
		if rem == nil {
			continue
		}
		resp.Reminders = append(resp.Reminders, summarizeReminder(rem))
	}
	return nil
}

func (s *service) MarkReminderSent(req MarkReminderSentRequest, resp *MarkReminderSentResponse) error {
	if err := s.daemon.MarkReminderSent(s.ctx, req.ID); err != nil {
		return err
	}
	resp.Marked = true
	return nil
}

func (s *service) DeleteReminder(req DeleteReminderRequest, resp *DeleteReminderResponse) error {
	deleted, err := s.daemon.DeleteReminder(s.ctx, req.ID)
	if err != nil {
		return err
	}
	resp.Deleted = deleted
	if deleted {
		s.log().Info("reminder deleted via IPC",
			logging.String(logging.FieldEventType, "reminder_deleted"),
			logging.Int64("reminder_id", req.ID))
	}
	return nil
}

func (s *service) StaleApplications(req StaleApplicationsRequest, resp *StaleApplicationsResponse) error {
	threshold := time.Duration(req.ThresholdDays) * 24 * time.Hour
	statuses, err := s.daemon.StaleApplications(s.ctx, req.Owner, threshold)
	if err != nil {
		return err
	}
	resp.Applications = make([]ApplicationSummary, 0, len(statuses))
	for _, st := range statuses {
		if st == nil {
			continue
		}
		resp.Applications = append(resp.Applications, summarizeStatus(st))
	}
	return nil
}

func (s *service) Stats(req StatsRequest, resp *StatsResponse) error {
	counts, err := s.daemon.ApplicationStats(s.ctx, req.Owner)
	if err != nil {
		return err
	}
	resp.Counts = make(map[string]int, len(counts))
	for k, v := range counts {
		resp.Counts[string(k)] = v
	}
	return nil
}

func (s *service) ActiveCompanies(req ActiveCompaniesRequest, resp *ActiveCompaniesResponse) error {
	companies, err := s.daemon.ActiveCompanies(s.ctx, req.Owner)
	if err != nil {
		return err
	}
	resp.Companies = companies
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.SchemaVersion = health.SchemaVersion
	resp.TableExists = health.TableExists
	resp.ColumnsPresent = append(resp.ColumnsPresent, health.ColumnsPresent...)
	resp.MissingColumns = append(resp.MissingColumns, health.MissingColumns...)
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalApplications = health.TotalApplications
	resp.Error = health.Error
	if err != nil {
		return err
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}
