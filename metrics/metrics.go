package metrics

/*
Labels and so on for metrics used in pyeos.
*/

const (
	LabelDevice  = "device"
	LabelMethod  = "method"
	LabelRoute   = "route"
	LabelSuccess = "success"
)
