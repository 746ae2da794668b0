package scheduledelivery

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-vera/ledger-bank/internal/accountdelivery"
	"github.com/go-vera/ledger-bank/internal/domain"
	"github.com/go-vera/ledger-bank/pkg/errorspkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accountnumber", accountdelivery.ValidAccountNumber); err != nil {
			log.Fatal("cannot register accountnumber validation:", err)
		}
	}

	os.Exit(m.Run())
}

func newTestRouter(service Service) *gin.Engine {
	handler := NewHandler(service)

	router := gin.New()
	router.POST("/scheduled-payments", handler.Create)
	router.GET("/scheduled-payments", handler.List)
	router.DELETE("/scheduled-payments/:id", handler.Cancel)

	return router
}

func TestCreateHandler(t *testing.T) {
	payment := domain.ScheduledPayment{
		ID:            1,
		FromAccount:   "1000000001",
		ToAccount:     "1000000002",
		Amount:        "100.00",
		Frequency:     domain.FrequencyWeekly,
		NextExecution: time.Now().Add(time.Minute).Truncate(time.Second).UTC(),
		Active:        true,
	}

	validBody := gin.H{
		"from_account": payment.FromAccount,
		"to_account":   payment.ToAccount,
		"amount":       payment.Amount,
		"frequency":    "WEEKLY",
	}

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "UnsupportedFrequency",
			requestBody: gin.H{
				"from_account": payment.FromAccount,
				"to_account":   payment.ToAccount,
				"amount":       payment.Amount,
				"frequency":    "HOURLY",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "MissingAmount",
			requestBody: gin.H{
				"from_account": payment.FromAccount,
				"to_account":   payment.ToAccount,
				"frequency":    "WEEKLY",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "NonPositiveAmount",
			requestBody: gin.H{
				"from_account": payment.FromAccount,
				"to_account":   payment.ToAccount,
				"amount":       "-5",
				"frequency":    "WEEKLY",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ScheduledPayment{}, domain.ErrNonPositiveAmount)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "InternalError",
			requestBody: validBody,
			buildStubs: func(service *MockService) {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.ScheduledPayment{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name:        "OK",
			requestBody: validBody,
			buildStubs: func(service *MockService) {
				arg := domain.CreateScheduledPaymentParams{
					FromAccount: payment.FromAccount,
					ToAccount:   payment.ToAccount,
					Amount:      payment.Amount,
					Frequency:   domain.FrequencyWeekly,
				}

				service.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(payment, nil)
			},
			wantStatusCode: http.StatusOK,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodPost, "/scheduled-payments", bytes.NewReader(body))

			newTestRouter(service).ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantStatusCode == http.StatusOK {
				var res paymentResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, payment, res.Data.ScheduledPayment)
			}
		})
	}
}

func TestCancelHandler(t *testing.T) {
	testCases := []struct {
		name           string
		url            string
		buildStubs     func(service *MockService)
		wantStatusCode int
	}{
		{
			name: "MalformedID",
			url:  "/scheduled-payments/abc",
			buildStubs: func(service *MockService) {
				service.EXPECT().Cancel(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "NotFound",
			url:  "/scheduled-payments/404",
			buildStubs: func(service *MockService) {
				service.EXPECT().Cancel(gomock.Any(), gomock.Eq(int64(404))).
					Times(1).
					Return(domain.ErrScheduledPaymentNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "InternalError",
			url:  "/scheduled-payments/1",
			buildStubs: func(service *MockService) {
				service.EXPECT().Cancel(gomock.Any(), gomock.Eq(int64(1))).
					Times(1).
					Return(errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name: "OK",
			url:  "/scheduled-payments/1",
			buildStubs: func(service *MockService) {
				service.EXPECT().Cancel(gomock.Any(), gomock.Eq(int64(1))).
					Times(1).
					Return(nil)
			},
			wantStatusCode: http.StatusNoContent,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodDelete, tc.url, nil)

			newTestRouter(service).ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)
		})
	}
}

func TestListHandler(t *testing.T) {
	payments := []domain.ScheduledPayment{
		{ID: 1, FromAccount: "1000000001", ToAccount: "1000000002", Amount: "100.00", Frequency: domain.FrequencyDaily, Active: true},
		{ID: 2, FromAccount: "1000000002", ToAccount: "1000000001", Amount: "50.00", Frequency: domain.FrequencyMonthly, Active: false},
	}

	testCases := []struct {
		name           string
		buildStubs     func(service *MockService)
		wantStatusCode int
		checkData      func(got []domain.ScheduledPayment)
	}{
		{
			name: "InternalError",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any()).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
		},
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().List(gomock.Any()).
					Times(1).
					Return(payments, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(got []domain.ScheduledPayment) {
				require.Equal(t, payments, got)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/scheduled-payments", nil)

			newTestRouter(service).ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.checkData != nil {
				var res listResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				tc.checkData(res.Data.ScheduledPayments)
			}
		})
	}
}
