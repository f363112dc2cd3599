package helper

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/relloyd/airpipe/constants"
	"github.com/relloyd/airpipe/logger"
)

// Convert a string of the form, 'f1,f2,f3...' into a slice of string values.
// 1) Split on comma.
// 2) Remove leading and trailing spaces.
func CsvToStringSliceTrimSpaces(s string) []string {
	tokens := strings.Split(s, ",")
	for x := range tokens {
		tokens[x] = strings.TrimSpace(tokens[x])
	}
	return tokens
}

// GetStringFromInterfaceUseUtcTime will convert interface{} value to a string.
// Times will be converted to UTC for string comparison!
func GetStringFromInterfaceUseUtcTime(log logger.Logger, input interface{}) (retval string) {
	return GetStringFromInterface(log, input, true)
}

// GetStringFromInterfacePreserveTimeZone will convert interface{} value to a string.
// Times will be in local time.
func GetStringFromInterfacePreserveTimeZone(log logger.Logger, input interface{}) (retval string) {
	return GetStringFromInterface(log, input, false)
}

// GetStringFromInterface will convert interface{} value to a string.
// Optionally return Times in UTC.
func GetStringFromInterface(log logger.Logger, input interface{}, useUTC bool) (retval string) {
	switch v := input.(type) {
	case int, int16, int32, int64, int8, uint8:
		retval = fmt.Sprintf("%d", v)
	case string:
		retval = fmt.Sprintf("%s", v)
	case float32:
		retval = fmt.Sprintf("%s", strconv.FormatFloat(float64(v), 'f', -1, 32)) // use 'f' to convert float to string without an exponent i.e. preserve all decimal points.
	case float64:
		retval = fmt.Sprintf("%s", strconv.FormatFloat(v, 'f', -1, 64)) // use 'f' to convert float to string without an exponent i.e. preserve all decimal points.
	case time.Time:
		if useUTC { // if caller requests UTC conversion...
			retval = input.(time.Time).UTC().Format(constants.TimeFormatYearSecondsTZ)
		} else { // else output Local time...
			retval = input.(time.Time).Format(constants.TimeFormatYearSecondsTZ)
		}
	case []uint8:
		retval = string(v)
	case bool:
		retval = fmt.Sprintf("%v", v)
	case nil:
		retval = ""
	default:
		log.Panic("unhandled type while fetching string from interface: type = ", reflect.TypeOf(input), "; value = ", input)
	}
	return
}

// StringsToCsv joins the strings by ","
func StringsToCsv(s []string) string {
	retval := strings.Join(s, ",")
	return retval
}
