// Package consts holds device node and sysfs paths of the display stack.
package consts

const (
	// device node families, numeric suffixes start at 0
	DevGraphicsFb   = `/dev/graphics/fb%d`
	DevAmvideo      = `/dev/amvideo`
	DevAmvideoN     = `/dev/amvideo%d`
	DevVideoHwc     = `/dev/video_hwc%d`
	DevVdin1        = `/dev/vdin1`
	DevDisplayVout1 = `/dev/display`
	DevDisplayVout2 = `/dev/display2`
)

// sysfs paths
const (
	SysDisplayMode       = `/sys/class/display/mode`
	SysDisplay2Mode      = `/sys/class/display2/mode`
	SysHdmiHpdState      = `/sys/class/amhdmitx/amhdmitx0/hpd_state`
	SysHdmiDvCap         = `/sys/class/amhdmitx/amhdmitx0/dv_cap`
	SysHdmiHdrCap        = `/sys/class/amhdmitx/amhdmitx0/hdr_cap`
	SysHdmiDispCap       = `/sys/class/amhdmitx/amhdmitx0/disp_cap`
	SysHdmiAttr          = `/sys/class/amhdmitx/amhdmitx0/attr`
	SysHdmiFracPolicy    = `/sys/class/amhdmitx/amhdmitx0/frac_rate_policy`
	SysHdmiAuthenticated = `/sys/module/hdmitx20/parameters/hdmi_authenticated`
	SysVideoAxis         = `/sys/class/video/axis`
	SysVideoAxisPip      = `/sys/class/video/axis_pip`
	SysVideoCrop         = `/sys/class/video/crop`
	SysVideoCropPip      = `/sys/class/video/crop_pip`
	SysPpmgrAngle        = `/sys/class/ppmgr/angle`
	SysLcdVinfo          = `/sys/class/lcd/vinfo`
	SysOsdLogoIndex      = `/sys/module/fb/parameters/osd_logo_index`
	SysFreeScaleSwitch   = `/sys/class/graphics/fb0/free_scale_switch`
)
