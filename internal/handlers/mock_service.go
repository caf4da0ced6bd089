package handlers

import (
	"context"
	"net/http"
	"time"

	"trip_logger/internal/hos"
	"trip_logger/internal/models"
	"trip_logger/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockDutyLog struct {
	change     models.DutyStatusChange
	recordErr  error
	batch      []models.DutyStatusChange
	batchErr   error
	current    models.DutyStatus
	currentErr error
	history    []models.DutyStatusChange
	historyErr error

	lastRecord service.ChangeParams
	lastBatch  []service.ChangeParams
	lastFilter service.ChangeFilter
}

func (m *mockDutyLog) Record(ctx context.Context, driverID int, p service.ChangeParams) (models.DutyStatusChange, error) {
	m.lastRecord = p
	return m.change, m.recordErr
}
func (m *mockDutyLog) RecordBatch(ctx context.Context, driverID int, batch []service.ChangeParams) ([]models.DutyStatusChange, error) {
	m.lastBatch = batch
	return m.batch, m.batchErr
}
func (m *mockDutyLog) Current(ctx context.Context, driverID int, at time.Time) (models.DutyStatus, error) {
	return m.current, m.currentErr
}
func (m *mockDutyLog) History(ctx context.Context, driverID int, f service.ChangeFilter) ([]models.DutyStatusChange, error) {
	m.lastFilter = f
	return m.history, m.historyErr
}

type mockCompliance struct {
	budget hos.Budget
	err    error
}

func (m *mockCompliance) Budget(ctx context.Context, driverID int, now time.Time) (hos.Budget, error) {
	return m.budget, m.err
}

type mockLogSheets struct {
	sheet       models.LogSheet
	startErr    error
	closeErr    error
	activeErr   error
	sheets      []models.LogSheet
	listErr     error
	timeline    hos.DailyTimeline
	timelineErr error
	remarkErr   error

	lastStart   service.StartSheetParams
	lastClose   service.CloseSheetParams
	lastFilter  service.SheetFilter
	lastSheetID string
	lastRemark  models.Remark
}

func (m *mockLogSheets) Start(ctx context.Context, driverID int, p service.StartSheetParams) (models.LogSheet, error) {
	m.lastStart = p
	return m.sheet, m.startErr
}
func (m *mockLogSheets) Close(ctx context.Context, driverID int, p service.CloseSheetParams) (models.LogSheet, error) {
	m.lastClose = p
	return m.sheet, m.closeErr
}
func (m *mockLogSheets) Active(ctx context.Context, driverID int) (models.LogSheet, error) {
	return m.sheet, m.activeErr
}
func (m *mockLogSheets) List(ctx context.Context, driverID int, f service.SheetFilter) ([]models.LogSheet, error) {
	m.lastFilter = f
	return m.sheets, m.listErr
}
func (m *mockLogSheets) Timeline(ctx context.Context, driverID int, sheetID string, date time.Time) (hos.DailyTimeline, error) {
	m.lastSheetID = sheetID
	return m.timeline, m.timelineErr
}
func (m *mockLogSheets) AddRemark(ctx context.Context, driverID int, sheetID string, r models.Remark) error {
	m.lastSheetID = sheetID
	m.lastRemark = r
	return m.remarkErr
}

type mockTripPlanner struct {
	plan      hos.Plan
	planErr   error
	stops     []models.Stop
	stopsErr  error
	stop      models.Stop
	arriveErr error
	departErr error
	skipErr   error
	removeErr error

	lastPlan   service.PlanParams
	lastStopID string
}

func (m *mockTripPlanner) Plan(ctx context.Context, driverID int, p service.PlanParams) (hos.Plan, error) {
	m.lastPlan = p
	return m.plan, m.planErr
}
func (m *mockTripPlanner) Stops(ctx context.Context, driverID int) ([]models.Stop, error) {
	return m.stops, m.stopsErr
}
func (m *mockTripPlanner) Arrive(ctx context.Context, driverID int, stopID string, at time.Time) (models.Stop, error) {
	m.lastStopID = stopID
	return m.stop, m.arriveErr
}
func (m *mockTripPlanner) Depart(ctx context.Context, driverID int, stopID string, at time.Time) (models.Stop, error) {
	m.lastStopID = stopID
	return m.stop, m.departErr
}
func (m *mockTripPlanner) Skip(ctx context.Context, driverID int, stopID string) (models.Stop, error) {
	m.lastStopID = stopID
	return m.stop, m.skipErr
}
func (m *mockTripPlanner) RemoveStop(ctx context.Context, driverID int, stopID string) error {
	m.lastStopID = stopID
	return m.removeErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
