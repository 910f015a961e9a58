package otfgrowth

import (
	"github.com/nsip/otf-growth/internal/util"
	"github.com/pkg/errors"
)

type Option func(*OtfGrowthService) error

//
// apply all supplied options to the service
// returns any error encountered while applying the options
//
func (srvc *OtfGrowthService) setOptions(options ...Option) error {
	for _, opt := range options {
		if err := opt(srvc); err != nil {
			return err
		}
	}
	return nil
}

//
// set the name for this service instance,
// a random name is generated if none is supplied
//
func Name(name string) Option {
	return func(s *OtfGrowthService) error {
		if name != "" {
			s.serviceName = name
			return nil
		}
		s.serviceName = util.GenerateName()
		return nil
	}
}

//
// set the unique id of this service instance,
// a nuid is generated if none is supplied
//
func ID(id string) Option {
	return func(s *OtfGrowthService) error {
		if id != "" {
			s.serviceID = id
			return nil
		}
		s.serviceID = util.GenerateID()
		return nil
	}
}

//
// set the host address for this service
//
func Host(hostName string) Option {
	return func(s *OtfGrowthService) error {
		if hostName != "" {
			s.serviceHost = hostName
			return nil
		}
		s.serviceHost = "localhost"
		return nil
	}
}

//
// set the port for this service,
// the first free port is used if 0 is supplied
//
func Port(port int) Option {
	return func(s *OtfGrowthService) error {
		if port != 0 {
			s.servicePort = port
			return nil
		}
		p, err := util.AvailablePort()
		if err != nil {
			return errors.Wrap(err, "no port specified and could not find an available port")
		}
		s.servicePort = p
		return nil
	}
}

//
// path to a json reference snapshot,
// the embedded snapshot is used if none is supplied
//
func Tables(path string) Option {
	return func(s *OtfGrowthService) error {
		s.tablesPath = path
		return nil
	}
}

//
// directory of WHO-style csv reference files,
// takes precedence over a snapshot file
//
func CSVDir(dir string) Option {
	return func(s *OtfGrowthService) error {
		s.csvDir = dir
		return nil
	}
}
