package config

const configTemplate = `# wakeup configuration file

# Command that suspends the system. It is run with /bin/sh -c and must
# return once the system has resumed.
suspend_command: pm-suspend
# suspend_command: systemctl suspend

# Command to run after wakeup, as the user who invoked wakeup (optional)
# event_command: notify-send "good morning"

# Observability settings
log_level: info  # debug, info, warn, error
`
