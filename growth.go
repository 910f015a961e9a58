package otfgrowth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/nsip/otf-growth/growth"
	"github.com/nsip/otf-growth/internal/util"
	"github.com/nsip/otf-growth/refdata"
	"github.com/pkg/errors"
)

type OtfGrowthService struct {
	// embedded web server to handle evaluation requests
	e *echo.Echo
	// the unique name of this service when running multiple instances
	serviceName string
	// the unique id of this service when running multiple instances
	serviceID string
	// the host address this service instance is running on
	serviceHost string
	// the port that this service instance is running on
	servicePort int
	// optional json reference snapshot, embedded snapshot if empty
	tablesPath string
	// optional directory of WHO-style csv reference files
	csvDir string
	// the active reference tables
	tables *refdata.Store
}

//
// Measurements sent to the
// web service.
// Params can be provided as json payload, via form components
// or as query params
//
type EvaluateRequest struct {
	//
	// date of birth
	//
	BirthDay   int `json:"birthDay" form:"birthDay" query:"birthDay"`
	BirthMonth int `json:"birthMonth" form:"birthMonth" query:"birthMonth"`
	BirthYear  int `json:"birthYear" form:"birthYear" query:"birthYear"`
	//
	// date the measurements were taken
	//
	ExamDay   int `json:"examDay" form:"examDay" query:"examDay"`
	ExamMonth int `json:"examMonth" form:"examMonth" query:"examMonth"`
	ExamYear  int `json:"examYear" form:"examYear" query:"examYear"`
	//
	// standing height / recumbent length in cm
	//
	HeightCm float64 `json:"heightCm" form:"heightCm" query:"heightCm"`
	//
	// weight in kg
	//
	WeightKg float64 `json:"weightKg" form:"weightKg" query:"weightKg"`
	//
	// female or male
	//
	Gender string `json:"gender" form:"gender" query:"gender"`
}

//
// create a new service instance
//
func New(options ...Option) (*OtfGrowthService, error) {

	srvc := OtfGrowthService{}

	if err := srvc.setOptions(options...); err != nil {
		return nil, err
	}
	if err := srvc.setDefaults(); err != nil {
		return nil, err
	}

	ts, err := srvc.loadTables()
	if err != nil {
		return nil, err
	}
	srvc.tables = refdata.NewStore(ts)

	srvc.e = echo.New()
	srvc.e.HideBanner = true
	srvc.e.Logger.SetPrefix("otf-growth")
	srvc.e.Logger.SetLevel(log.INFO)
	// add pingable method to know we're up
	srvc.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "OK")
	})
	// add evaluation method
	srvc.e.POST("/evaluate", srvc.buildEvaluateHandler())
	// reference table inspection
	srvc.e.GET("/references", srvc.buildReferencesHandler())
	srvc.e.GET("/lms", srvc.buildLMSHandler())

	return &srvc, nil
}

//
// fill in anything the caller left unset
//
func (s *OtfGrowthService) setDefaults() error {
	var defaults []Option
	if s.serviceName == "" {
		defaults = append(defaults, Name(""))
	}
	if s.serviceID == "" {
		defaults = append(defaults, ID(""))
	}
	if s.serviceHost == "" {
		defaults = append(defaults, Host(""))
	}
	if s.servicePort == 0 {
		defaults = append(defaults, Port(0))
	}
	return s.setOptions(defaults...)
}

//
// load reference tables from the configured source
//
func (s *OtfGrowthService) loadTables() (*growth.Tables, error) {
	switch {
	case s.csvDir != "":
		return refdata.LoadCSVDir(s.csvDir)
	case s.tablesPath != "":
		return refdata.LoadFile(s.tablesPath)
	default:
		return refdata.Embedded()
	}
}

//
// re-read the reference tables and swap them in as a whole,
// requests already running finish against the snapshot they started with
//
func (s *OtfGrowthService) ReloadTables() error {
	defer util.TimeTrack(time.Now(), "reference reload")

	ts, err := s.loadTables()
	if err != nil {
		return errors.Wrap(err, "reference reload failed, keeping current tables")
	}
	s.tables.Swap(ts)
	s.e.Logger.Infof("reference tables reloaded from %s", ts.Source)
	return nil
}

//
// start the service running
//
func (s *OtfGrowthService) Start() {

	address := fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
	go func(addr string) {
		if err := s.e.Start(addr); err != nil {
			s.e.Logger.Info("error starting server: ", err, ", shutting down...")
			// attempt clean shutdown by raising sig int
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(address)

}

//
// creates the main evaluate method
// requires an input of request variables (in json)
// birth & exam dates as day/month/year,
// heightCm, weightKg and gender (female|male)
//
func (s *OtfGrowthService) buildEvaluateHandler() echo.HandlerFunc {

	sName := s.serviceName
	sID := s.serviceID

	return func(c echo.Context) error {
		// check required params are in input
		er := &EvaluateRequest{}
		if err := c.Bind(er); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		gender, err := growth.ParseGender(er.Gender)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "gender must be one of female or male")
		}

		// one snapshot for the whole evaluation
		analyzer := growth.NewAnalyzer(s.tables.Current())
		result, err := analyzer.EvaluateParts(
			er.BirthDay, er.BirthMonth, er.BirthYear,
			er.ExamDay, er.ExamMonth, er.ExamYear,
			er.HeightCm, er.WeightKg, gender,
		)
		if err != nil {
			var ae *growth.AnalysisError
			if errors.As(err, &ae) && ae.IsValidation() {
				return echo.NewHTTPError(http.StatusBadRequest, ae.Error())
			}
			if errors.Cause(err) == growth.ErrInvalidDate {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			c.Logger().Errorf("evaluation error: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		c.Logger().Debugj(log.JSON{
			"gender":        gender.String(),
			"ageMonths":     result.Age.Months,
			"height":        result.Height != nil,
			"weight":        result.Weight != nil,
			"bodyMassIndex": result.BodyMassIndex != nil,
		})

		evaluateResponse := map[string]interface{}{
			"result":            result,
			"growthServiceID":   sID,
			"growthServiceName": sName,
		}

		return respond(c, http.StatusOK, evaluateResponse)
	}
}

//
// summary of the loaded reference tables
//
type referenceInfo struct {
	Gender     string `json:"gender"`
	Metric     string `json:"metric"`
	Extended   bool   `json:"extended"`
	FirstMonth int    `json:"firstMonth"`
	LastMonth  int    `json:"lastMonth"`
	Entries    int    `json:"entries"`
}

//
// lists coverage of the active reference snapshot
//
func (s *OtfGrowthService) buildReferencesHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		ts := s.tables.Current()
		cov := ts.Coverage()
		tables := make([]referenceInfo, 0, len(cov))
		for _, tc := range cov {
			tables = append(tables, referenceInfo{
				Gender:     tc.Gender.String(),
				Metric:     tc.Metric.String(),
				Extended:   tc.Extended,
				FirstMonth: tc.FirstMonth,
				LastMonth:  tc.LastMonth,
				Entries:    tc.Entries,
			})
		}
		return respond(c, http.StatusOK, map[string]interface{}{
			"source": ts.Source,
			"tables": tables,
		})
	}
}

//
// returns the interpolated LMS triplet used for a
// gender / metric / age-in-months query
//
func (s *OtfGrowthService) buildLMSHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		gender, err := growth.ParseGender(c.QueryParam("gender"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		metric, err := growth.ParseMetric(c.QueryParam("metric"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		months, err := strconv.ParseFloat(c.QueryParam("months"), 64)
		if err != nil || months < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "months must be a non-negative number")
		}

		p, err := growth.NewResolver(s.tables.Current()).Resolve(gender, metric, months)
		if errors.Cause(err) == growth.ErrNoReference {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return respond(c, http.StatusOK, map[string]interface{}{
			"gender": gender.String(),
			"metric": metric.String(),
			"months": months,
			"lms":    p,
		})
	}
}

//
// shut the server down gracefully
//
func (s *OtfGrowthService) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Println("could not shut down server cleanly: ", err)
		s.e.Logger.Fatal(err)
	}

}

func (s *OtfGrowthService) PrintConfig() {

	fmt.Println("\n\tOTF-Growth Service Configuration")
	fmt.Println("\t---------------------------------")
	fmt.Println()

	s.printID()
	s.printReferenceConfig()

}

func (s *OtfGrowthService) printID() {
	fmt.Println("\tservice name:\t\t", s.serviceName)
	fmt.Println("\tservice ID:\t\t", s.serviceID)
	fmt.Println("\tservice host:\t\t", s.serviceHost)
	fmt.Println("\tservice port:\t\t", s.servicePort)
}

func (s *OtfGrowthService) printReferenceConfig() {
	ts := s.tables.Current()
	fmt.Println("\treference source:\t", ts.Source)
	for _, tc := range ts.Coverage() {
		name := tc.Metric.String()
		if tc.Extended {
			name += " (extended)"
		}
		fmt.Printf("\t  %-7s %-22s months %d-%d (%d entries)\n",
			tc.Gender, name, tc.FirstMonth, tc.LastMonth, tc.Entries)
	}
}
